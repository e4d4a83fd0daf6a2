package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-prism/plugin"
	"github.com/cwbudde/algo-prism/plugin/preset"
	"github.com/cwbudde/algo-prism/plugin/state"
)

func runState(args []string) error {
	fs, _ := newFlagSet("state")

	dump := fs.String("dump", "", "print the parameters stored in a state file")
	write := fs.String("write", "", "write a state file from defaults plus parameter flags")
	xmlOut := fs.Bool("xml", false, "with -dump, print the embedded XML document")
	params := addParamFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *dump != "" && *write != "":
		return errors.New("state: -dump and -write are mutually exclusive")
	case *dump != "":
		return dumpState(os.Stdout, *dump, *xmlOut)
	case *write != "":
		return writeState(*write, params)
	default:
		fs.Usage()
		return errors.New("state: one of -dump or -write is required")
	}
}

func dumpState(w io.Writer, path string, asXML bool) error {
	surface, err := plugin.NewLayout()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("state: %w", err)
	}

	values, err := state.Decode(data)
	if err != nil {
		return fmt.Errorf("state: %s: %w", path, err)
	}

	if asXML {
		doc, err := state.MarshalXML(values)
		if err != nil {
			return fmt.Errorf("state: %w", err)
		}

		_, err = fmt.Fprintf(w, "%s\n", doc)

		return err
	}

	surface.Restore(values)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Key\tName\tValue\tStored\n"); err != nil {
		return err
	}

	for _, p := range surface.Params() {
		stored := "default"
		if v, ok := values[p.Key()]; ok {
			stored = fmt.Sprintf("%g", v)
		}

		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Key(), p.Name(), p.Format(), stored); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func writeState(path string, params *paramFlags) error {
	surface, err := plugin.NewLayout()
	if err != nil {
		return err
	}

	if err := params.apply(surface); err != nil {
		return fmt.Errorf("state: %w", err)
	}

	if err := preset.Save(path, surface.Values()); err != nil {
		return fmt.Errorf("state: %w", err)
	}

	return nil
}
