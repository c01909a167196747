// ircam-viewer - view and record Y16 infrared camera video
//  Copyright (C) 2026, the ircam-viewer authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	arg "github.com/alexflint/go-arg"
	"github.com/coreos/go-systemd/daemon"

	"github.com/ircam-tools/ircam-viewer/inet"
	"github.com/ircam-tools/ircam-viewer/session"
)

var version = "<not set>"

type Args struct {
	Device     string `arg:"-d,--device" help:"V4L2 capture device"`
	Playback   string `arg:"-p,--playback" help:"replay a raw CPTV recording"`
	Listen     string `arg:"-l,--listen" help:"display frames from a remote sender (addr:port)"`
	Connect    string `arg:"--connect" help:"send frames to a remote viewer (addr:port)"`
	RecordOnly bool   `arg:"-n,--record-only" help:"record raw video without opening a window"`
	Width      int    `arg:"-w,--width" help:"window width in pixels"`
	Font       string `arg:"-f,--font" help:"path to TTF font for overlay text"`
	Fullscreen bool   `arg:"--fullscreen" help:"open the window fullscreen"`
	Quiet      bool   `arg:"-q,--quiet" help:"skip the startup help banner"`
	ConfigFile string `arg:"-c,--config" help:"path to configuration file"`
	Timestamps bool   `arg:"-t,--timestamps" help:"include timestamps in log output"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	var args Args
	args.ConfigFile = "/etc/ircam-viewer.yaml"
	arg.MustParse(&args)
	return args
}

func main() {
	err := runMain()
	if err != nil {
		log.Fatal(err)
	}
}

func runMain() error {
	args := procArgs()

	if !args.Timestamps {
		log.SetFlags(0) // Removes default timestamp flag
	}

	log.Printf("running version: %s", version)
	conf, err := ParseConfigFile(args.ConfigFile)
	if err != nil {
		return err
	}
	applyArgs(conf, &args)

	if err := checkModes(&args); err != nil {
		return err
	}

	source, err := openSource(&args)
	if err != nil {
		return err
	}

	headless := args.RecordOnly || args.Connect != ""

	var ui session.UI
	if !headless {
		sdlUI, err := openSDL(source.Descriptor(), conf, args.Playback != "" || args.Listen != "")
		if err != nil {
			source.Close()
			return err
		}
		ui = sdlUI
	}

	sess := session.New(source, ui, session.Config{
		DeviceName:       conf.DeviceName,
		OutputDir:        conf.OutputDir,
		MinDiskSpaceMB:   conf.MinDiskSpace,
		RecordRawOnStart: args.RecordOnly,
	})

	if args.Connect != "" {
		sender, err := inet.Dial(args.Connect, source.Descriptor())
		if err != nil {
			source.Close()
			return err
		}
		log.Printf("sending frames to %s", args.Connect)
		sess.SetSender(sender)
	}

	if headless {
		log.Println("starting d-bus service")
		if err := startService(sess); err != nil {
			return err
		}
		startWatchdog(sess, source.Descriptor().FPS)
	}

	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Printf("got %v, stopping", sig)
		sess.Stop()
	}()

	daemon.SdNotify(false, "READY=1")
	return sess.Run()
}

// applyArgs lets the command line override the config file.
func applyArgs(conf *Config, args *Args) {
	if args.Width > 0 {
		conf.WindowWidth = args.Width
	}
	if args.Font != "" {
		conf.Font = args.Font
	}
	if args.Fullscreen {
		conf.Fullscreen = true
	}
	if args.Quiet {
		conf.HideHelp = true
	}
}

func checkModes(args *Args) error {
	sources := 0
	if args.Device != "" {
		sources++
	}
	if args.Playback != "" {
		sources++
	}
	if args.Listen != "" {
		sources++
	}
	if sources > 1 {
		return errors.New("pass only one of --device, --playback and --listen")
	}
	if args.Connect != "" && (args.Playback != "" || args.Listen != "") {
		return errors.New("--connect only works with a live camera")
	}
	if args.RecordOnly && (args.Playback != "" || args.Listen != "") {
		return errors.New("--record-only only works with a live camera")
	}
	return nil
}

func openSource(args *Args) (session.Source, error) {
	switch {
	case args.Playback != "":
		log.Printf("replaying %s", args.Playback)
		return session.OpenPlayback(args.Playback)
	case args.Listen != "":
		log.Printf("waiting for a sender on %s", args.Listen)
		return session.ListenNet(args.Listen)
	default:
		device := args.Device
		if device == "" {
			device = "/dev/video0"
		}
		log.Printf("opening %s", device)
		return session.OpenLive(device)
	}
}

// startWatchdog pings systemd every few seconds of frames so a hung
// headless session gets restarted.
func startWatchdog(sess *session.Session, fps uint32) {
	interval := int(5 * fps)
	if interval == 0 {
		interval = 1
	}
	count := 0
	sess.SetFrameHook(func() {
		if count++; count >= interval {
			daemon.SdNotify(false, "WATCHDOG=1")
			count = 0
		}
	})
}
