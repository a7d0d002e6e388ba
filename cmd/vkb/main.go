// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/vkb/core"
	"github.com/devblok/vkb/shaders"
	"github.com/devblok/vkb/vkr"
	"github.com/devblok/vkb/window"
)

func init() {
	runtime.LockOSThread()
}

var (
	configPath = flag.String("config", "", "path to a TOML configuration file")
	envFile    = flag.String("env", ".env", "dotenv file with VKB_* overrides")
	vkDebug    = flag.Bool("vkdbg", false, "enable the Vulkan validation layer")
	cpuProfile = flag.String("cpuprof", "", "write a CPU profile to file")
	traceFile  = flag.String("trace", "", "write an execution trace to file")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	cfg, err := core.LoadConfiguration(*configPath, *envFile)
	if err != nil {
		log.WithError(err).Error("configuration")
		return 2
	}
	if *vkDebug {
		cfg.Renderer.Validation = true
		if cfg.Renderer.ValidationLayer == "" {
			cfg.Renderer.ValidationLayer = core.DefaultValidationLayer
		}
	}

	logger := log.StandardLogger()
	if err := core.ConfigureLogger(logger, cfg.Log); err != nil {
		log.WithError(err).Error("configuration")
		return 2
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.WithError(err).Error("cpu profile")
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.WithError(err).Error("cpu profile")
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	if *traceFile != "" {
		f, err := os.Create(*traceFile)
		if err != nil {
			log.WithError(err).Error("trace")
			return 1
		}
		defer f.Close()
		if err := trace.Start(f); err != nil {
			log.WithError(err).Error("trace")
			return 1
		}
		defer trace.Stop()
	}

	if err := runEngine(cfg, logger); err != nil {
		if errors.Is(err, core.ErrQuitRequested) {
			log.Info("quit requested")
			return 0
		}
		log.WithError(err).Error("vkb terminated")
		return 1
	}
	return 0
}

func runEngine(cfg core.Configuration, logger *log.Logger) error {
	code, err := loadShaders(cfg.Renderer)
	if err != nil {
		return errors.Wrap(err, "load shaders")
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return errors.Wrap(err, "sdl.Init()")
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		return errors.Wrap(err, "sdl.VulkanLoadLibrary()")
	}
	defer sdl.VulkanUnloadLibrary()

	win, err := window.New(cfg.Window)
	if err != nil {
		return err
	}
	defer win.Destroy()

	icfg := vkr.InstanceConfiguration{
		Extensions: win.VulkanExtensions(),
	}
	if cfg.Renderer.Validation {
		icfg.Layers = []string{cfg.Renderer.ValidationLayer}
	}

	instance, err := vkr.NewInstance(sdl.VulkanGetVkGetInstanceProcAddr(), icfg, logger)
	if err != nil {
		return err
	}
	defer instance.Destroy()

	surface, err := win.CreateSurface(instance.Handle())
	if err != nil {
		return err
	}

	renderer, err := vkr.New(instance, surface, win.DrawableSize(), cfg.Renderer, code, logger)
	if err != nil {
		instance.DestroySurface(surface)
		return err
	}
	defer renderer.Destroy()

	pacer := core.NewTime(cfg.Time)
	defer pacer.Stop()

	engine := core.NewEngine(win, renderer, core.WithLogger(logger), core.WithTime(pacer))
	err = engine.Run(newSpinner())
	log.WithField("frames", engine.Frames()).Info("engine stopped")
	return err
}

func loadShaders(cfg core.RendererConfiguration) (vkr.ShaderCode, error) {
	if cfg.ShaderBundle != "" {
		log.WithField("bundle", cfg.ShaderBundle).Debug("loading shader bundle")
		return shaders.LoadBundle(cfg.ShaderBundle)
	}
	return shaders.Load()
}
