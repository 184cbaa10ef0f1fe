package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/mastercactapus/meshradar/coord"
	"github.com/mastercactapus/meshradar/grid"
	"github.com/mastercactapus/meshradar/machine"
	"github.com/mastercactapus/meshradar/panel"
)

type api struct {
	http.Handler
	p    *panel.Panel
	grid *grid.Grid
	sse  *sse.Server

	stop func()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func newAPI(p *panel.Panel, g *grid.Grid, states chan machine.State) *api {
	r := mux.NewRouter()

	a := &api{
		Handler: r,
		p:       p,
		grid:    g,
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(io.Discard, "", 0),
		}),
	}

	r.HandleFunc("/api/grid", a.getGrid).Methods("GET")
	r.HandleFunc("/api/radar", a.getRadar).Methods("GET")
	r.HandleFunc("/api/radar/open", a.openRadar).Methods("POST")
	r.HandleFunc("/api/radar/encoder", a.encoder).Methods("POST")
	r.HandleFunc("/api/radar/click", a.click).Methods("POST")
	r.HandleFunc("/api/home", a.home).Methods("POST")
	r.HandleFunc("/api/beep", a.beep).Methods("POST")
	r.HandleFunc("/api/beep", a.putBeep).Methods("PUT")
	r.HandleFunc("/ws/encoder", a.wsEncoder)
	r.PathPrefix("/events/").Handler(a.sse)

	events, stop := p.Subscribe()
	a.stop = stop
	go func() {
		for e := range events {
			a.send("/events/panel", e)
		}
	}()
	go func() {
		for state := range states {
			a.send("/events/state", state)
		}
	}()

	return a
}

// Close disconnects event clients.
func (a *api) Close() {
	a.stop()
	a.sse.Shutdown()
}

func (a *api) send(channel string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("ERROR: marshal json: %+v", err)
		return
	}
	a.sse.SendMessage(channel, sse.SimpleMessage(string(data)))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Println("ERROR: encode:", err)
	}
}

type gridPoint struct {
	grid.Coordinate
	Index    int
	Position coord.Point
}
type gridInfo struct {
	PointsX, PointsY int
	Points           []gridPoint
}

func (a *api) getGrid(w http.ResponseWriter, req *http.Request) {
	info := gridInfo{
		PointsX: a.grid.X.Len(),
		PointsY: a.grid.Y.Len(),
	}
	for _, c := range a.grid.Coordinates() {
		info.Points = append(info.Points, gridPoint{
			Coordinate: c,
			Index:      a.grid.Index(c),
			Position:   a.grid.Position(c),
		})
	}
	writeJSON(w, info)
}

func (a *api) getRadar(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, a.p.Status())
}

func (a *api) openRadar(w http.ResponseWriter, req *http.Request) {
	a.p.OpenRadar()
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) encoder(w http.ResponseWriter, req *http.Request) {
	if s := req.FormValue("value"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		a.p.SetEncoder(v)
	} else if s := req.FormValue("delta"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		a.p.Rotate(v)
	} else {
		http.Error(w, "delta or value required", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) click(w http.ResponseWriter, req *http.Request) {
	a.p.Click()
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) home(w http.ResponseWriter, req *http.Request) {
	err := a.p.Home()
	if err != nil {
		log.Printf("ERROR: home: %+v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) beep(w http.ResponseWriter, req *http.Request) {
	err := a.p.Beep()
	if err != nil {
		log.Printf("ERROR: beep: %+v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) putBeep(w http.ResponseWriter, req *http.Request) {
	opt := a.p.Status().Beep

	var err error
	parse := func(param string, dst *int) {
		s := req.FormValue(param)
		if err != nil || s == "" {
			return
		}
		*dst, err = strconv.Atoi(s)
	}
	parse("count", &opt.Count)
	parse("tone", &opt.Tone)
	parse("duration", &opt.Duration)
	if err == nil {
		err = a.p.SetBeep(opt)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, opt)
}

type encoderInput struct {
	Delta int  `json:"delta"`
	Value *int `json:"value"`
	Click bool `json:"click"`
	Open  bool `json:"open"`
}

func (a *api) wsEncoder(w http.ResponseWriter, req *http.Request) {
	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Println("ERROR: upgrade:", err)
		return
	}
	defer ws.Close()

	for {
		var in encoderInput
		err = ws.ReadJSON(&in)
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("ERROR: read encoder:", err)
			}
			return
		}
		if in.Open {
			a.p.OpenRadar()
		}
		if in.Value != nil {
			a.p.SetEncoder(*in.Value)
		}
		if in.Delta != 0 {
			a.p.Rotate(in.Delta)
		}
		if in.Click {
			a.p.Click()
		}
	}
}
