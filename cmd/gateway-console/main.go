// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command gateway-console is a small TUI operator console. It maps single
// keypresses to HTTP calls against a running gateway's control surface,
// rather than touching the pipeline in-process.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/jessevdk/go-flags"
)

type options struct {
	ControlAddr string `short:"a" long:"control-addr" default:"http://127.0.0.1:8088" description:"base URL of the gateway control surface"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, "tcell init:", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "tcell init:", err)
		os.Exit(1)
	}
	defer screen.Fini()

	status := "ready"
	draw := func() {
		screen.Clear()
		lines := []string{
			"secure gateway console  (" + opts.ControlAddr + ")",
			"",
			"e  enable policy chain",
			"d  disable policy chain",
			"t  enable transformers",
			"f  disable transformers",
			"q  terminate the gateway",
			"",
			"status: " + status,
		}
		for row, line := range lines {
			for col, r := range line {
				screen.SetContent(col, row, r, nil, tcell.StyleDefault)
			}
		}
		screen.Show()
	}
	draw()

	client := &http.Client{}
	post := func(path string) {
		resp, err := client.Post(opts.ControlAddr+path, "application/octet-stream", nil)
		if err != nil {
			status = "error: " + err.Error()
			return
		}
		resp.Body.Close()
		status = path + " -> " + resp.Status
	}

	for {
		ev := screen.PollEvent()
		switch e := ev.(type) {
		case *tcell.EventKey:
			switch e.Rune() {
			case 'e':
				post("/policy/enable")
			case 'd':
				post("/policy/disable")
			case 't':
				post("/transform/enable")
			case 'f':
				post("/transform/disable")
			case 'q':
				post("/terminate")
				draw()
				return
			}
			if e.Key() == tcell.KeyEscape || e.Key() == tcell.KeyCtrlC {
				return
			}
			draw()
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}
