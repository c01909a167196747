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
	"io/ioutil"
	"os"

	yaml "gopkg.in/yaml.v2"
)

type Config struct {
	DeviceName   string `yaml:"device-name"`
	OutputDir    string `yaml:"output-dir"`
	MinDiskSpace uint64 `yaml:"min-disk-space"`
	Font         string `yaml:"font"`
	WindowWidth  int    `yaml:"window-width"`
	Fullscreen   bool   `yaml:"fullscreen"`
	HideHelp     bool   `yaml:"hide-help"`
}

var defaultConfig = Config{
	DeviceName:   "ircam",
	OutputDir:    ".",
	MinDiskSpace: 200,
	Font:         "/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
	WindowWidth:  1440,
}

func (conf *Config) Validate() error {
	if conf.OutputDir == "" {
		return errors.New("output-dir must be set")
	}
	if conf.WindowWidth <= 0 {
		return errors.New("window-width must be positive")
	}
	return nil
}

// WindowHeight preserves the 4:3 aspect of the supported sensors.
func (conf *Config) WindowHeight() int {
	return conf.WindowWidth / 4 * 3
}

// ParseConfigFile loads the config, falling back to defaults when
// the file does not exist.
func ParseConfigFile(filename string) (*Config, error) {
	buf, err := ioutil.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			buf = nil
		} else {
			return nil, err
		}
	}
	return ParseConfig(buf)
}

func ParseConfig(buf []byte) (*Config, error) {
	conf := defaultConfig
	if err := yaml.Unmarshal(buf, &conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}
