package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/emberlang/ember/internal/interp"
)

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ember_history")
}

func runREPL(rt *interp.Runtime) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	line.SetCompleter(func(prefix string) []string {
		var out []string
		for _, m := range rt.Modules() {
			if strings.HasPrefix(m, prefix) {
				out = append(out, m+".")
			}
			if dot := strings.IndexByte(prefix, '.'); dot >= 0 && prefix[:dot] == m {
				fns, err := rt.Functions(m)
				if err != nil {
					continue
				}
				for _, fn := range fns {
					full := m + "." + fn
					if strings.HasPrefix(full, prefix) {
						out = append(out, full+"(")
					}
				}
			}
		}
		sort.Strings(out)
		return out
	})

	if hp := historyPath(); hp != "" {
		if f, err := os.Open(hp); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Println("ember interactive session, :help for commands")
	for {
		input, err := line.Prompt("ember> ")
		if err != nil {
			fmt.Println()
			break
		}
		text := strings.TrimSpace(input)
		if text == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(text, ":") {
			if quit := replCommand(rt, text); quit {
				break
			}
			continue
		}

		c, err := parseCall(text)
		if err != nil {
			fmt.Printf("parse error: %v\n", err)
			continue
		}
		result, err := rt.Call(c.module, c.fn, c.args)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Println(result.String())
	}

	if hp := historyPath(); hp != "" {
		if f, err := os.Create(hp); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}
}

// replCommand handles the ":" commands. Returns true to quit.
func replCommand(rt *interp.Runtime, text string) bool {
	fields := strings.Fields(text)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":modules":
		names := rt.Modules()
		sort.Strings(names)
		for _, n := range names {
			fmt.Println(n)
		}
	case ":functions":
		if len(fields) < 2 {
			fmt.Println("usage: :functions <module>")
			return false
		}
		fns, err := rt.Functions(fields[1])
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return false
		}
		sort.Strings(fns)
		for _, fn := range fns {
			fmt.Println(fn)
		}
	case ":help":
		fmt.Println(`commands:
  :modules             list modules
  :functions <module>  list a module's functions
  :quit                leave the session

calls look like:  math.add(1, 2)  strings.upper("hi")  json.parse("[1,2]")`)
	default:
		fmt.Printf("unknown command %s, try :help\n", fields[0])
	}
	return false
}
