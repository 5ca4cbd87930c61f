/*
Copyright (c) 2023-2026 The iris4d authors

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/spf13/afero"
	"github.com/twintower/iris4d/emulator"
	"github.com/twintower/iris4d/platform"
	"github.com/twintower/iris4d/version"
)

var (
	promImage,
	idpromImage,
	nvramImage,
	diskImage string
)

var (
	traceParity,
	ver bool
)

func init() {
	flag.BoolVar(&ver, "v", false, "Print version information")
	flag.BoolVar(&traceParity, "trace-parity", false, "Log parity subsystem activity")

	flag.StringVar(&promImage, "prom", "", "Path to boot PROM image")
	flag.StringVar(&idpromImage, "idprom", "", "Path to ID PROM image")
	flag.StringVar(&nvramImage, "nvram", "", "Path to NVRAM image (created if missing)")
	flag.StringVar(&diskImage, "disk", "", "Path to disk image")
}

func main() {
	flag.Parse()

	if ver {
		fmt.Printf("iris4d %s\n", version.Current.FullString())
		fmt.Println(version.Copyright)
		return
	}

	console, err := platform.NewConsole(nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer console.Stop()

	// The screen owns the terminal now.
	log.SetOutput(ioutil.Discard)

	m, err := emulator.New(emulator.Config{
		Fs:         afero.NewOsFs(),
		PromPath:   promImage,
		IDPROMPath: idpromImage,
		NVRAMPath:  nvramImage,
		DiskPath:   diskImage,
		Console:    console,
		LEDs:       console.SetLED,
		Trace:      traceParity,
	})
	if err != nil {
		console.Stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer m.Close()

	console.SetInput(func(b byte) {
		m.Console.Receive(0, b)
	})

	if err := m.Run(console.Done()); err != nil {
		console.Stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
