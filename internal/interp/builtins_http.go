package interp

import (
	"io"
	"net/http"
	"net/url"
	"strings"
)

func httpModule() *Module {
	return &Module{
		Name: "http",
		Funcs: map[string]*Builtin{
			"get":             {Name: "get", Fn: httpGet},
			"post":            {Name: "post", Fn: httpPost},
			"put":             {Name: "put", Fn: httpPut},
			"delete":          {Name: "delete", Fn: httpDelete},
			"patch":           {Name: "patch", Fn: httpPatch},
			"call":            {Name: "call", Fn: httpCall},
			"url_encode":      {Name: "url_encode", Fn: httpURLEncode},
			"url_decode":      {Name: "url_decode", Fn: httpURLDecode},
			"form_data":       {Name: "form_data", Fn: httpFormData},
			"is_success":      {Name: "is_success", Fn: httpIsSuccess},
			"is_client_error": {Name: "is_client_error", Fn: httpIsClientError},
			"is_server_error": {Name: "is_server_error", Fn: httpIsServerError},
		},
	}
}

// doRequest issues one HTTP request. The optional headers map applies to
// the request; the client timeout bounds socket I/O only.
func doRequest(rt *Runtime, fn, method, target, body string, headers Value) (Value, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return nil, domainErrorf("%s: invalid request: %v", fn, err)
	}
	if headers != nil {
		entries, convErr := AsMap(headers)
		if convErr != nil {
			return nil, typeErrorf("%s: headers: %v", fn, convErr)
		}
		for k, v := range entries {
			req.Header.Set(k, AsString(v))
		}
	}
	resp, err := rt.httpClient.Do(req)
	if err != nil {
		return nil, ioErrorf("%s %s failed: %v", method, target, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, rt.limits.MaxReadBytes))
	if err != nil {
		return nil, ioErrorf("cannot read response body: %v", err)
	}
	respHeaders := make(map[string]Value, len(resp.Header))
	for k := range resp.Header {
		respHeaders[k] = String{resp.Header.Get(k)}
	}
	return Map{map[string]Value{
		"status":  Int{int64(resp.StatusCode)},
		"body":    String{string(data)},
		"headers": Map{respHeaders},
	}}, nil
}

func bodylessRequest(rt *Runtime, fn, method string, args []Value) (Value, error) {
	if err := wantRange(fn, args, 1, 2); err != nil {
		return nil, err
	}
	target, err := argString(fn, args, 0)
	if err != nil {
		return nil, err
	}
	var headers Value
	if len(args) == 2 {
		headers = args[1]
	}
	return doRequest(rt, fn, method, target, "", headers)
}

func bodiedRequest(rt *Runtime, fn, method string, args []Value) (Value, error) {
	if err := wantRange(fn, args, 2, 3); err != nil {
		return nil, err
	}
	target, err := argString(fn, args, 0)
	if err != nil {
		return nil, err
	}
	body, err := argString(fn, args, 1)
	if err != nil {
		return nil, err
	}
	var headers Value
	if len(args) == 3 {
		headers = args[2]
	}
	return doRequest(rt, fn, method, target, body, headers)
}

func httpGet(rt *Runtime, args []Value) (Value, error) {
	return bodylessRequest(rt, "http.get", http.MethodGet, args)
}

func httpPost(rt *Runtime, args []Value) (Value, error) {
	return bodiedRequest(rt, "http.post", http.MethodPost, args)
}

func httpPut(rt *Runtime, args []Value) (Value, error) {
	return bodiedRequest(rt, "http.put", http.MethodPut, args)
}

func httpDelete(rt *Runtime, args []Value) (Value, error) {
	return bodylessRequest(rt, "http.delete", http.MethodDelete, args)
}

func httpPatch(rt *Runtime, args []Value) (Value, error) {
	return bodiedRequest(rt, "http.patch", http.MethodPatch, args)
}

func httpCall(rt *Runtime, args []Value) (Value, error) {
	if err := wantRange("http.call", args, 2, 4); err != nil {
		return nil, err
	}
	method, err := argString("http.call", args, 0)
	if err != nil {
		return nil, err
	}
	target, err := argString("http.call", args, 1)
	if err != nil {
		return nil, err
	}
	body := ""
	if len(args) >= 3 {
		body, err = argString("http.call", args, 2)
		if err != nil {
			return nil, err
		}
	}
	var headers Value
	if len(args) == 4 {
		headers = args[3]
	}
	return doRequest(rt, "http.call", strings.ToUpper(method), target, body, headers)
}

func httpURLEncode(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("http.url_encode", args, 1); err != nil {
		return nil, err
	}
	s, err := argString("http.url_encode", args, 0)
	if err != nil {
		return nil, err
	}
	return String{url.QueryEscape(s)}, nil
}

func httpURLDecode(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("http.url_decode", args, 1); err != nil {
		return nil, err
	}
	s, err := argString("http.url_decode", args, 0)
	if err != nil {
		return nil, err
	}
	decoded, decodeErr := url.QueryUnescape(s)
	if decodeErr != nil {
		return nil, parseErrorf("invalid URL encoding: %v", decodeErr)
	}
	return String{decoded}, nil
}

func httpFormData(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("http.form_data", args, 1); err != nil {
		return nil, err
	}
	entries, err := AsMap(args[0])
	if err != nil {
		return nil, typeErrorf("http.form_data: argument 1: %v", err)
	}
	form := url.Values{}
	for k, v := range entries {
		form.Set(k, AsString(v))
	}
	return String{form.Encode()}, nil
}

func statusCheck(fn string, args []Value, lo, hi int64) (Value, error) {
	if err := wantExact(fn, args, 1); err != nil {
		return nil, err
	}
	status, err := argInt(fn, args, 0)
	if err != nil {
		return nil, err
	}
	return Bool{status >= lo && status <= hi}, nil
}

func httpIsSuccess(_ *Runtime, args []Value) (Value, error) {
	return statusCheck("http.is_success", args, 200, 299)
}

func httpIsClientError(_ *Runtime, args []Value) (Value, error) {
	return statusCheck("http.is_client_error", args, 400, 499)
}

func httpIsServerError(_ *Runtime, args []Value) (Value, error) {
	return statusCheck("http.is_server_error", args, 500, 599)
}
