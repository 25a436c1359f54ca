package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/example/doodlepad/internal/appstate"
	"github.com/example/doodlepad/internal/persist"
)

// drawCmd opens the drawing window.
type drawCmd struct {
	*root
	fs          *flag.FlagSet
	output      string
	pdf         bool
	toClipboard bool
	width       int
	height      int
	accessible  bool
	title       string
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.output, "output", "", "save to this file instead of the download folder")
	fs.BoolVar(&d.pdf, "pdf", false, "also save a PDF next to the PNG")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "also copy the drawing to the clipboard on save")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "also copy the drawing to the clipboard on save (alias)")
	fs.IntVar(&d.width, "width", 0, "surface width in pixels (default from config, then 800)")
	fs.IntVar(&d.height, "height", 0, "surface height in pixels (default from config, then 600)")
	fs.BoolVar(&d.accessible, "accessible", false, "start with keyboard pen control enabled")
	fs.StringVar(&d.title, "title", "Doodlepad", "window title")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: d}
	}
	if (d.width == 0) != (d.height == 0) {
		return nil, fmt.Errorf("-width and -height must be given together")
	}
	if d.width < 0 || d.height < 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", d.width, d.height)
	}
	return d, nil
}

// persister builds the save pipeline selected by the flags.
func (d *drawCmd) persister() persist.Persister {
	return savePipeline(d.root, d.output, d.pdf, d.toClipboard)
}

func savePipeline(r *root, output string, pdf, toClipboard bool) persist.Persister {
	saveDir := ""
	if r != nil && r.config != nil {
		saveDir = r.config.SaveDir
	}
	var chain persist.Multi
	if output != "" {
		chain = append(chain, persist.File{Path: output})
	} else {
		chain = append(chain, persist.Download{Dir: saveDir})
	}
	if pdf {
		if output != "" {
			chain = append(chain, persist.PDF{Path: strings.TrimSuffix(output, filepath.Ext(output)) + ".pdf"})
		} else {
			chain = append(chain, persist.PDF{Dir: saveDir})
		}
	}
	if toClipboard {
		chain = append(chain, persist.Clipboard{})
	}
	var p persist.Persister = chain
	if len(chain) == 1 {
		p = chain[0]
	}
	if r != nil && r.notifier != nil {
		p = persist.Notifying{Persister: p, Notifier: r.notifier}
	}
	return p
}

func (d *drawCmd) Run() error {
	extra := []appstate.Option{appstate.WithPersister(d.persister())}
	if d.width > 0 {
		extra = append(extra, appstate.WithSize(d.width, d.height))
	}
	if d.accessible {
		extra = append(extra, appstate.WithAccessibility(true))
	}
	opts, err := d.engineOptions(extra...)
	if err != nil {
		return err
	}
	e, err := appstate.New(opts...)
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	defer e.Close()

	var copier persist.Persister = persist.Clipboard{}
	if d.notifier != nil {
		copier = persist.Notifying{Persister: copier, Notifier: d.notifier}
	}
	w := appstate.NewWindow(e,
		appstate.WithTitle(d.title),
		appstate.WithCopier(copier),
		appstate.WithOnClose(func() {
			if d.verbose {
				log.Printf("draw: window closed, session %s", e.ID())
			}
		}),
	)
	w.Run()
	return nil
}
