// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command vkbinfo prints the Vulkan physical devices as JSON.
package main

import (
	"encoding/json"
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkb/core"
	"github.com/devblok/vkb/vkr"
)

var (
	indent = flag.Bool("indent", false, "indent the output")
	vkDbg  = flag.Bool("vkdbg", false, "enable the validation layer")
)

func main() {
	flag.Parse()

	cfg := vkr.InstanceConfiguration{}
	if *vkDbg {
		cfg.Layers = []string{core.DefaultValidationLayer}
	}

	instance, err := vkr.NewInstance(nil, cfg, log.StandardLogger())
	if err != nil {
		log.WithError(err).Fatal("create instance")
	}
	defer instance.Destroy()

	enc := json.NewEncoder(os.Stdout)
	if *indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(instance.PhysicalDevicesInfo()); err != nil {
		log.WithError(err).Error("encode device info")
	}
}
