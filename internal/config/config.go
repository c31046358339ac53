// config.go

// Copyright (C) 2024  The tellopilot authors

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package config loads tellopilot settings from an optional JSON file with
// sensible defaults for a stock Tello.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings is the typed view of the loaded configuration.
type Settings struct {
	LogLevel string

	DroneAddr        string
	DroneControlPort int
	DroneLocalPort   int

	// PhotoPattern and VideoPattern are Go time layouts used to derive
	// timestamped output filenames.
	PhotoPattern string
	VideoPattern string

	// DryRunFile, when set, plays the named file as the drone video stream
	// instead of connecting to a drone.
	DryRunFile string
	WideVideo  bool

	DecodeWidth  int
	DecodeHeight int

	DisplayWidth  int
	DisplayHeight int

	StartSpeed int
}

// Load reads tellopilot.cfg.json from configDir, falling back to defaults
// when no file exists.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("drone.addr", "192.168.10.1")
	viper.SetDefault("drone.controlPort", 8889)
	viper.SetDefault("drone.localPort", 8800)

	viper.SetDefault("files.photoPattern", "tello-2006-01-02_150405.jpeg")
	viper.SetDefault("files.videoPattern", "tello-2006-01-02_150405.mp4")

	viper.SetDefault("video.dryRunFile", "")
	viper.SetDefault("video.wide", false)
	viper.SetDefault("video.decodeWidth", 960)
	viper.SetDefault("video.decodeHeight", 720)

	viper.SetDefault("display.width", 1280)
	viper.SetDefault("display.height", 720)

	viper.SetDefault("control.startSpeed", 30)

	viper.SetConfigName("tellopilot.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil // defaults only
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// TimestampedName renders a filename pattern whose stem is a Go time layout.
// The extension is kept out of the layout, otherwise the "4" in ".mp4" would
// be consumed as a minute token.
func TimestampedName(pattern string, at time.Time) string {
	ext := filepath.Ext(pattern)
	return at.Format(strings.TrimSuffix(pattern, ext)) + ext
}

// Current snapshots the loaded configuration.
func Current() Settings {
	return Settings{
		LogLevel: viper.GetString("logLevel"),

		DroneAddr:        viper.GetString("drone.addr"),
		DroneControlPort: viper.GetInt("drone.controlPort"),
		DroneLocalPort:   viper.GetInt("drone.localPort"),

		PhotoPattern: viper.GetString("files.photoPattern"),
		VideoPattern: viper.GetString("files.videoPattern"),

		DryRunFile: viper.GetString("video.dryRunFile"),
		WideVideo:  viper.GetBool("video.wide"),

		DecodeWidth:  viper.GetInt("video.decodeWidth"),
		DecodeHeight: viper.GetInt("video.decodeHeight"),

		DisplayWidth:  viper.GetInt("display.width"),
		DisplayHeight: viper.GetInt("display.height"),

		StartSpeed: viper.GetInt("control.startSpeed"),
	}
}
