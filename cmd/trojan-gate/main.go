// Command trojan-gate is the process entry point: load config, build
// the handler registry and routing runtime, and run the SOCKS5
// listener and control-plane HTTP server until the process exits.
// Grounded on the teacher's own main.go + hub/executor split, collapsed
// to this spec's much smaller bootstrap surface.
package main

import (
	"flag"
	"net/http"
	"strconv"

	"github.com/trojan-gate/trojan-gate/adapter/outbound"
	"github.com/trojan-gate/trojan-gate/config"
	"github.com/trojan-gate/trojan-gate/hub/route"
	"github.com/trojan-gate/trojan-gate/listener/socks"
	"github.com/trojan-gate/trojan-gate/log"
	"github.com/trojan-gate/trojan-gate/routing"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the gateway's YAML config")
	flag.Parse()

	cfg, err := config.UnmarshalFile(*configPath)
	if err != nil {
		log.Fatalln("%s", err)
	}

	if cfg.LogLevel != "" {
		level, err := parseLogLevel(cfg.LogLevel)
		if err != nil {
			log.Fatalln("%s", err)
		}
		log.SetLevel(level)
	}

	registry := outbound.NewRegistry(cfg.Handlers...)

	runtime := routing.NewRuntime()
	for _, g := range cfg.ProxyGroups {
		if len(g.Proxies) == 0 {
			log.Fatalln("proxy group %q has no proxies", g.Name)
		}
		if _, ok := registry.Get(g.Proxies[0]); !ok {
			log.Fatalln("proxy group %q: default outbound %q is not registered", g.Name, g.Proxies[0])
		}
		runtime.RegisterGroup(g.Name, g.Proxies)
	}
	if _, ok := runtime.GetGroup(cfg.RoutingGroup); !ok {
		log.Fatalln("routing-group %q was not declared under proxy-groups", cfg.RoutingGroup)
	}

	addr := "0.0.0.0:" + strconv.Itoa(cfg.SocksPort)
	ln, err := socks.New(addr, registry, runtime, cfg.RoutingGroup)
	if err != nil {
		log.Fatalln("%s", err)
	}
	log.Infoln("SOCKS5 proxy listening on %s", ln.Address())

	if cfg.APIAddress != "" {
		go func() {
			log.Infoln("control plane listening on %s", cfg.APIAddress)
			if err := http.ListenAndServe(cfg.APIAddress, route.NewHandler(runtime, registry)); err != nil {
				log.Errorln("control plane stopped: %s", err)
			}
		}()
	}

	if err := ln.Serve(); err != nil {
		log.Fatalln("%s", err)
	}
}

func parseLogLevel(name string) (log.LogLevel, error) {
	switch name {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	case "silent":
		return log.SilentLevel, nil
	default:
		return 0, &unknownLogLevelError{name}
	}
}

type unknownLogLevelError struct{ name string }

func (e *unknownLogLevelError) Error() string {
	return "unknown log-level " + e.name
}

