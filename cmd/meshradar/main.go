package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/mastercactapus/meshradar/machine"
	"github.com/mastercactapus/meshradar/machine/marlin"
	"github.com/mastercactapus/meshradar/machine/sim"
	"github.com/mastercactapus/meshradar/panel"
	"github.com/mastercactapus/meshradar/spjs"
)

func openAdapter(cfg Config) (machine.Adapter, error) {
	if cfg.Port == "sim" {
		return sim.NewAdapter(cfg.SimDelay), nil
	}
	if cfg.SPJS != "" {
		return marlin.NewSPJSAdapter(spjs.New(cfg.SPJS), cfg.Port, cfg.Baud), nil
	}
	return marlin.OpenSerial(cfg.Port, cfg.Baud)
}

func main() {
	log.SetFlags(log.Lshortfile)

	cfg, err := ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	adapter, err := openAdapter(cfg)
	if err != nil {
		log.Fatalf("open '%s': %v", cfg.Port, err)
	}
	m := machine.NewMachine(adapter, cfg.Feed)

	nav, err := cfg.Navigator(m)
	if err != nil {
		log.Fatal(err)
	}
	p := panel.New(panel.Config{
		Navigator:     nav,
		Actions:       m,
		FrameInterval: cfg.FrameInterval,
		Pages:         cfg.Pages,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	go m.Run(ctx)
	go p.Run(ctx)

	api := newAPI(p, nav.Grid(), m.State())
	defer api.Close()

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "*")
			log.Printf("%s %s - %s", req.Method, req.URL.Path, req.RemoteAddr)
			api.ServeHTTP(w, req)
		}),
	}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	log.Println("Listening on", cfg.Addr)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
