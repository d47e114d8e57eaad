package interp

import (
	"context"
	"strings"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/descriptorpb"
)

// grpcConn wraps one client connection. Loaded proto descriptors live on
// the Runtime so every connection sees the same schema set.
type grpcConn struct {
	target string
	conn   *grpc.ClientConn
}

func grpcModule() *Module {
	return &Module{
		Name: "grpc",
		Funcs: map[string]*Builtin{
			"load_proto": {Name: "load_proto", Fn: grpcLoadProto},
			"dial":       {Name: "dial", Fn: grpcDial},
			"call":       {Name: "call", Fn: grpcCall},
			"close":      {Name: "close", Fn: grpcClose},
		},
	}
}

func grpcLoadProto(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("grpc.load_proto", args, 1); err != nil {
		return nil, err
	}
	path, err := argString("grpc.load_proto", args, 0)
	if err != nil {
		return nil, err
	}
	parser := protoparse.Parser{ImportPaths: []string{"."}}
	fds, parseErr := parser.ParseFiles(path)
	if parseErr != nil {
		return nil, parseErrorf("cannot parse proto '%s': %v", path, parseErr)
	}
	rt.protoMu.Lock()
	for _, fd := range fds {
		rt.protos[fd.GetName()] = fd
	}
	rt.protoMu.Unlock()
	return Null{}, nil
}

func grpcDial(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("grpc.dial", args, 1); err != nil {
		return nil, err
	}
	target, err := argString("grpc.dial", args, 0)
	if err != nil {
		return nil, err
	}
	conn, dialErr := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if dialErr != nil {
		return nil, ioErrorf("cannot connect to '%s': %v", target, dialErr)
	}
	id := rt.grpcs.Create(&grpcConn{target: target, conn: conn})
	return Int{id}, nil
}

// grpcCall invokes a unary method. The method path is
// "package.Service/Method"; the request is a Map matching the input
// message's fields.
func grpcCall(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("grpc.call", args, 3); err != nil {
		return nil, err
	}
	id, err := argHandle("grpc.call", args, 0)
	if err != nil {
		return nil, err
	}
	methodPath, err := argString("grpc.call", args, 1)
	if err != nil {
		return nil, err
	}
	request, err := AsMap(args[2])
	if err != nil {
		return nil, typeErrorf("grpc.call: argument 3: %v", err)
	}
	gc, err := rt.grpcs.Get(id)
	if err != nil {
		return nil, err
	}
	md, err := rt.findMethodDescriptor(methodPath)
	if err != nil {
		return nil, err
	}
	reqMsg := dynamic.NewMessage(md.GetInputType())
	if err := mapToDynamicMessage(request, reqMsg); err != nil {
		return nil, err
	}
	respMsg := dynamic.NewMessage(md.GetOutputType())
	if !strings.HasPrefix(methodPath, "/") {
		methodPath = "/" + methodPath
	}
	if invokeErr := gc.conn.Invoke(context.Background(), methodPath, reqMsg, respMsg); invokeErr != nil {
		return nil, ioErrorf("RPC %s failed: %v", methodPath, invokeErr)
	}
	return dynamicMessageToValue(respMsg), nil
}

func grpcClose(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("grpc.close", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("grpc.close", args, 0)
	if err != nil {
		return nil, err
	}
	gc, err := rt.grpcs.Remove(id)
	if err != nil {
		return nil, err
	}
	if closeErr := gc.conn.Close(); closeErr != nil {
		return nil, ioErrorf("cannot close connection to '%s': %v", gc.target, closeErr)
	}
	return Null{}, nil
}

func (rt *Runtime) findMethodDescriptor(path string) (*desc.MethodDescriptor, error) {
	slash := strings.LastIndex(path, "/")
	if slash < 0 {
		return nil, domainErrorf("invalid method path '%s', expected 'package.Service/Method'", path)
	}
	serviceName, methodName := path[:slash], path[slash+1:]
	rt.protoMu.RLock()
	defer rt.protoMu.RUnlock()
	for _, fd := range rt.protos {
		if svc := fd.FindService(serviceName); svc != nil {
			if m := svc.FindMethodByName(methodName); m != nil {
				return m, nil
			}
		}
	}
	return nil, domainErrorf("method '%s' not found in loaded protos", path)
}

func mapToDynamicMessage(fields map[string]Value, msg *dynamic.Message) error {
	for name, val := range fields {
		fd := msg.GetMessageDescriptor().FindFieldByName(name)
		if fd == nil {
			continue
		}
		v, err := valueToProtoField(val, fd)
		if err != nil {
			return typeErrorf("field %s: %v", name, err)
		}
		if v != nil {
			msg.SetField(fd, v)
		}
	}
	return nil
}

func valueToProtoField(val Value, fd *desc.FieldDescriptor) (interface{}, error) {
	if fd.IsRepeated() {
		elems, err := AsArray(val)
		if err != nil {
			return nil, err
		}
		var slice []interface{}
		for _, e := range elems {
			v, err := valueToProtoScalar(e, fd)
			if err != nil {
				return nil, err
			}
			slice = append(slice, v)
		}
		return slice, nil
	}
	if val.Kind() == NullKind {
		return nil, nil
	}
	return valueToProtoScalar(val, fd)
}

func valueToProtoScalar(val Value, fd *desc.FieldDescriptor) (interface{}, error) {
	switch fd.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_INT32,
		descriptorpb.FieldDescriptorProto_TYPE_SINT32,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		n, err := AsInt(val)
		if err != nil {
			return nil, err
		}
		return int32(n), nil
	case descriptorpb.FieldDescriptorProto_TYPE_INT64,
		descriptorpb.FieldDescriptorProto_TYPE_SINT64,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return AsInt(val)
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		n, err := AsInt(val)
		if err != nil {
			return nil, err
		}
		return uint32(n), nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		n, err := AsInt(val)
		if err != nil {
			return nil, err
		}
		return uint64(n), nil
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		f, err := AsFloat(val)
		if err != nil {
			return nil, err
		}
		return float32(f), nil
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return AsFloat(val)
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return AsBool(val)
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return AsString(val), nil
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return []byte(AsString(val)), nil
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:
		fields, err := AsMap(val)
		if err != nil {
			return nil, err
		}
		nested := dynamic.NewMessage(fd.GetMessageType())
		if err := mapToDynamicMessage(fields, nested); err != nil {
			return nil, err
		}
		return nested, nil
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		if n, err := AsInt(val); err == nil {
			return int32(n), nil
		}
		name := AsString(val)
		if ev := fd.GetEnumType().FindValueByName(name); ev != nil {
			return ev.GetNumber(), nil
		}
		return nil, domainErrorf("unknown enum value '%s'", name)
	}
	return nil, typeErrorf("unsupported proto field type %v", fd.GetType())
}

func dynamicMessageToValue(msg *dynamic.Message) Value {
	entries := make(map[string]Value)
	for _, fd := range msg.GetMessageDescriptor().GetFields() {
		entries[fd.GetName()] = protoFieldToValue(msg.GetField(fd), fd)
	}
	return Map{entries}
}

func protoFieldToValue(val interface{}, fd *desc.FieldDescriptor) Value {
	if fd.IsRepeated() {
		slice, ok := val.([]interface{})
		if !ok {
			return Array{nil}
		}
		elems := make([]Value, len(slice))
		for i, v := range slice {
			elems[i] = protoScalarToValue(v)
		}
		return Array{elems}
	}
	return protoScalarToValue(val)
}

func protoScalarToValue(val interface{}) Value {
	switch v := val.(type) {
	case nil:
		return Null{}
	case int32:
		return Int{int64(v)}
	case int64:
		return Int{v}
	case uint32:
		return Int{int64(v)}
	case uint64:
		return Int{int64(v)}
	case int:
		return Int{int64(v)}
	case float32:
		return Float{float64(v)}
	case float64:
		return Float{v}
	case bool:
		return Bool{v}
	case string:
		return String{v}
	case []byte:
		return String{string(v)}
	case *dynamic.Message:
		return dynamicMessageToValue(v)
	}
	return Null{}
}
