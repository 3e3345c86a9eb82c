// Command lucidxml-cat parses one or more XML documents and prints one
// line per SAX event, mirroring the teacher's helium-lint front end but
// targeting this module's event model instead of a DOM dump.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/lucidxml/lucidxml"
	"github.com/lucidxml/lucidxml/sax"
)

type options struct {
	Entities string `long:"entities" choice:"keep" choice:"skip" choice:"callback" default:"keep" description:"how to resolve unrecognized entity references"`
	Args     []string `positional-args:"yes" positional-arg-name:"FILE"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}

	if len(opts.Args) == 0 {
		if err := run(os.Stdin, opts.Entities); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	for _, name := range opts.Args {
		if err := runFile(name, opts.Entities); err != nil {
			fmt.Fprintln(os.Stderr, name+":", err)
			os.Exit(1)
		}
	}
}

func runFile(name, entities string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return runWithPolicy(f, entities)
}

func run(r io.Reader, entities string) error {
	return runWithPolicy(r, entities)
}

func runWithPolicy(r io.Reader, entities string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	opts := lucidxml.Options{}
	switch entities {
	case "skip":
		opts.EntityPolicy = lucidxml.SkipEntities
	case "callback":
		opts.EntityPolicy = lucidxml.CallbackEntities
		opts.ResolveEntity = func(name string) (string, error) {
			return "&" + name + ";", nil
		}
	default:
		opts.EntityPolicy = lucidxml.KeepEntities
	}

	handler := sax.HandlerFunc[int](func(ev sax.Event, depth int) (sax.Vote, int, error) {
		printEvent(ev, depth)
		switch ev.Kind {
		case sax.StartElement:
			depth++
		case sax.EndElement:
			depth--
		}
		return sax.Ok, depth, nil
	})

	_, err = lucidxml.ParseString(data, handler, 0, opts)
	return err
}

func printEvent(ev sax.Event, depth int) {
	indent := depth
	if ev.Kind == sax.EndElement && indent > 0 {
		indent--
	}
	prefix := ""
	for i := 0; i < indent; i++ {
		prefix += "  "
	}

	switch ev.Kind {
	case sax.StartDocument:
		fmt.Printf("start_document version=%q encoding=%q\n", ev.Version, ev.Encoding)
	case sax.EndDocument:
		fmt.Println("end_document")
	case sax.StartElement:
		fmt.Printf("%sstart_element %s", prefix, ev.Name)
		for _, a := range ev.Attributes {
			fmt.Printf(" %s=%q", a.Name, a.Value)
		}
		fmt.Println()
	case sax.EndElement:
		fmt.Printf("%send_element %s\n", prefix, ev.Name)
	case sax.Characters:
		fmt.Printf("%scharacters %q\n", prefix, ev.Text)
	}
}
