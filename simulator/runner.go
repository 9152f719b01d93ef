package simulator

import (
	"fmt"
	"math"
	"time"

	"fleetmas/config"
	"fleetmas/core/auction"
	"fleetmas/core/events"
	"fleetmas/core/logger"
	"fleetmas/core/metrics"
	"fleetmas/core/model"
	"fleetmas/core/solver"
	"fleetmas/infra/mqtt"
	"fleetmas/internal/eventbus"
)

// Report summarizes one completed run.
type Report struct {
	Requests   int
	Delivered  int
	Makespan   int64
	TravelTime int64
	Tardiness  int64
	Objective  float64
}

// Runner drives the online allocation loop over a scenario: requests
// are auctioned to the fleet as they are released, winners replan their
// route with cheapest insertion and the fleet executes the routes in
// simulated time.
type Runner struct {
	sc   *Scenario
	cfg  *config.Config
	log  logger.Logger
	sink metrics.MetricsSink
	bus  *eventbus.Bus
	pub  mqtt.Publisher

	auctioneer      *auction.Auctioneer
	bidders         []*auction.SolverBidder
	vehicleByBidder map[string]int
	planner         *solver.CheapestInsertionSolver
	weights         solver.Weights

	// Per-stop arrays shared by every snapshot.
	release []int64
	due     []int64
	service []int64

	states   map[string]model.ParcelState
	released map[string]bool

	// fleet[v].Destination is the stop being traveled to or serviced,
	// 0 when idle; routes[v] holds the stops planned after it.
	fleet  []*model.Vehicle
	routes [][]int

	now       int64
	snapshot  *model.GlobalState
	delivered int
	travel    int64
	tardiness int64
}

// NewRunner wires a runner for the scenario. The bus and publisher are
// optional; a nil sink falls back to NopSink.
func NewRunner(sc *Scenario, cfg *config.Config, log logger.Logger, sink metrics.MetricsSink, bus *eventbus.Bus, pub mqtt.Publisher) *Runner {
	if log == nil {
		log = logger.Nop{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	w := solver.Weights{Travel: cfg.Solver.TravelWeight, Tardiness: cfg.Solver.TardinessWeight}
	r := &Runner{
		sc:              sc,
		cfg:             cfg,
		log:             log,
		sink:            sink,
		bus:             bus,
		pub:             pub,
		vehicleByBidder: make(map[string]int),
		planner:         solver.NewCheapestInsertionSolver(w, cfg.Solver.InsertionDepth, log),
		weights:         w,
		states:          make(map[string]model.ParcelState),
		released:        make(map[string]bool),
	}

	n := sc.NumStops()
	r.release = make([]int64, n)
	r.due = make([]int64, n)
	r.service = make([]int64, n)
	for _, req := range sc.Requests {
		r.release[req.PickupIndex] = req.PickupWindow.Start
		r.release[req.DeliveryIndex] = req.DeliveryWindow.Start
		r.due[req.PickupIndex] = req.PickupWindow.End
		r.due[req.DeliveryIndex] = req.DeliveryWindow.End
		r.service[req.PickupIndex] = req.ServiceDuration
		r.service[req.DeliveryIndex] = req.ServiceDuration
		r.states[req.ID] = model.StateAnnounced
	}

	v := sc.Vehicles
	r.fleet = make([]*model.Vehicle, v)
	r.routes = make([][]int, v)
	r.auctioneer = auction.NewAuctioneer(cfg.Auction.Seed, log)
	r.bidders = make([]*auction.SolverBidder, v)
	for i := 0; i < v; i++ {
		id := fmt.Sprintf("vehicle-%d", i)
		r.fleet[i] = &model.Vehicle{ID: id, Position: sc.Depot}
		b := auction.NewSolverBidder(id, i, r, r, w, cfg.Solver.InsertionDepth, log)
		b.AddChangeListener(r.onChange)
		r.auctioneer.Register(b)
		r.bidders[i] = b
		r.vehicleByBidder[id] = i
	}
	r.auctioneer.AddAuctionListener(r.onAuction)
	r.snapshot = r.buildSnapshot()
	return r
}

// ParcelState implements auction.StateReader.
func (r *Runner) ParcelState(req *model.Request) model.ParcelState {
	return r.states[req.ID]
}

// Snapshot implements auction.SnapshotSource.
func (r *Runner) Snapshot() *model.GlobalState { return r.snapshot }

// Run executes the scenario to completion and returns the report.
func (r *Runner) Run() (Report, error) {
	total := len(r.sc.Requests)
	for r.delivered < total {
		if err := r.dispatchIdle(); err != nil {
			return Report{}, err
		}

		next := int64(math.MaxInt64)
		for _, req := range r.sc.Requests {
			if !r.released[req.ID] && req.ReleaseDate < next {
				next = req.ReleaseDate
			}
		}
		for _, veh := range r.fleet {
			if veh.HasDestination() && veh.RemainingServiceTime < next {
				next = veh.RemainingServiceTime
			}
		}
		if next == math.MaxInt64 {
			r.log.Warnf("run stalled at t=%d with %d/%d delivered", r.now, r.delivered, total)
			break
		}
		if next > r.now {
			r.now = next
		}

		if err := r.processReleases(); err != nil {
			return Report{}, err
		}
		if err := r.processCompletions(); err != nil {
			return Report{}, err
		}
	}
	r.log.Infof("run finished: %d/%d delivered, makespan %d, travel %d, tardiness %d",
		r.delivered, total, r.now, r.travel, r.tardiness)
	return Report{
		Requests:   total,
		Delivered:  r.delivered,
		Makespan:   r.now,
		TravelTime: r.travel,
		Tardiness:  r.tardiness,
		Objective:  r.weights.Travel*float64(r.travel) + r.weights.Tardiness*float64(r.tardiness),
	}, nil
}

// processReleases announces every newly released request and auctions it
// off. The winner immediately replans its route.
func (r *Runner) processReleases() error {
	for _, req := range r.sc.Requests {
		if r.released[req.ID] || req.ReleaseDate > r.now {
			continue
		}
		r.released[req.ID] = true
		r.snapshot = r.buildSnapshot()
		winner, err := r.auctioneer.Allocate(req, r.now)
		if err != nil {
			return fmt.Errorf("allocate %s: %w", req.ID, err)
		}
		r.states[req.ID] = model.StateAvailable
		if err := r.planVehicle(r.vehicleByBidder[winner.ID()]); err != nil {
			return err
		}
	}
	return nil
}

// processCompletions finishes every service that is due. A completed
// pickup moves the request into the cargo and retires the claim; a
// completed delivery finishes the request.
func (r *Runner) processCompletions() error {
	for v, veh := range r.fleet {
		stop := veh.Destination
		if stop == 0 || veh.RemainingServiceTime > r.now {
			continue
		}
		veh.Destination = 0
		veh.Position = r.sc.StopLocations[stop]
		req, err := r.sc.RequestAt(stop)
		if err != nil {
			return err
		}
		if stop == req.PickupIndex {
			r.states[req.ID] = model.StateInCargo
			veh.Cargo = append(veh.Cargo, req.DeliveryIndex)
			r.bidders[v].Done()
		} else {
			r.states[req.ID] = model.StateDelivered
			veh.Cargo = removeStop(veh.Cargo, stop)
			r.delivered++
			r.log.Debugf("%s delivered %s at t=%d", veh.ID, req.ID, r.now)
		}
	}
	return nil
}

// dispatchIdle commits every idle vehicle with a pending route to its
// next stop. Committing to a pickup claims the request first.
func (r *Runner) dispatchIdle() error {
	for v, veh := range r.fleet {
		if veh.HasDestination() || len(r.routes[v]) == 0 {
			continue
		}
		stop := r.routes[v][0]
		r.routes[v] = r.routes[v][1:]
		req, err := r.sc.RequestAt(stop)
		if err != nil {
			return err
		}
		if stop == req.PickupIndex {
			if err := r.bidders[v].Claim(req); err != nil {
				return err
			}
			r.states[req.ID] = model.StatePickingUp
		} else {
			r.states[req.ID] = model.StateDelivering
		}
		tt := travelTime(veh.Position, r.sc.StopLocations[stop])
		arr := r.now + tt
		if rd := r.release[stop]; rd > arr {
			arr = rd
		}
		r.travel += tt
		if due := r.due[stop]; due > 0 && arr > due {
			r.tardiness += arr - due
		}
		veh.Destination = stop
		veh.RemainingServiceTime = arr + r.service[stop]
	}
	return nil
}

// planVehicle reroutes a single vehicle over its outstanding work: the
// unpicked parcels it won plus the deliveries already in its cargo. The
// committed destination stays first.
func (r *Runner) planVehicle(v int) error {
	veh := r.fleet[v]
	st := &model.GlobalState{
		TravelTime:            r.sc.TravelTime,
		ReleaseDates:          r.release,
		DueDates:              r.due,
		ServiceTimes:          r.service,
		VehicleTravelTimes:    [][]int64{r.vehicleRow(v)},
		RemainingServiceTimes: []int64{r.freeAt(v)},
		CurrentDestinations:   []int{veh.Destination},
		CurrentRoutes:         [][]int{r.committedRoute(v)},
		Time:                  r.now,
	}
	var open int
	for _, req := range r.bidders[v].AssignedParcels() {
		if !r.states[req.ID].IsPickedUp() {
			st.ServicePairs = append(st.ServicePairs, [2]int{req.PickupIndex, req.DeliveryIndex})
			open++
		}
	}
	for _, d := range veh.Cargo {
		st.Inventories = append(st.Inventories, [2]int{0, d})
	}

	start := time.Now()
	solved, err := r.planner.Solve(st)
	if err != nil {
		return fmt.Errorf("replan %s: %w", veh.ID, err)
	}
	route := solved[0]
	if veh.HasDestination() {
		if len(route) == 0 || route[0] != veh.Destination {
			return fmt.Errorf("%w: replan dropped committed destination of %s", solver.ErrInternalConsistency, veh.ID)
		}
		route = route[1:]
	}
	r.routes[v] = route

	if err := r.sink.RecordSolve(metrics.SolveResult{
		Solver:    "cheapest_insertion",
		Objective: solver.RouteCost(st, 0, solved[0], r.weights),
		Vehicles:  1,
		Requests:  open,
		Duration:  time.Since(start),
		Time:      time.Now(),
	}); err != nil {
		r.log.Warnf("record solve: %v", err)
	}
	return nil
}

// buildSnapshot assembles the global snapshot used by the bidders.
func (r *Runner) buildSnapshot() *model.GlobalState {
	v := r.sc.Vehicles
	st := &model.GlobalState{
		TravelTime:            r.sc.TravelTime,
		ReleaseDates:          r.release,
		DueDates:              r.due,
		ServiceTimes:          r.service,
		VehicleTravelTimes:    make([][]int64, v),
		RemainingServiceTimes: make([]int64, v),
		CurrentDestinations:   make([]int, v),
		CurrentRoutes:         make([][]int, v),
		Time:                  r.now,
	}
	for _, req := range r.sc.Requests {
		if r.released[req.ID] && !r.states[req.ID].IsPickedUp() {
			st.ServicePairs = append(st.ServicePairs, [2]int{req.PickupIndex, req.DeliveryIndex})
		}
	}
	for i, veh := range r.fleet {
		st.VehicleTravelTimes[i] = r.vehicleRow(i)
		st.RemainingServiceTimes[i] = r.freeAt(i)
		st.CurrentDestinations[i] = veh.Destination
		st.CurrentRoutes[i] = r.committedRoute(i)
		for _, d := range veh.Cargo {
			st.Inventories = append(st.Inventories, [2]int{i, d})
		}
	}
	return st
}

// committedRoute is the planned route with the stop in progress, if
// any, restored at the front.
func (r *Runner) committedRoute(v int) []int {
	veh := r.fleet[v]
	if !veh.HasDestination() {
		return append([]int(nil), r.routes[v]...)
	}
	route := make([]int, 0, len(r.routes[v])+1)
	route = append(route, veh.Destination)
	return append(route, r.routes[v]...)
}

// vehicleRow computes travel times from the vehicle's position to every
// stop.
func (r *Runner) vehicleRow(v int) []int64 {
	row := make([]int64, r.sc.NumStops())
	for j := range row {
		row[j] = travelTime(r.fleet[v].Position, r.sc.StopLocations[j])
	}
	return row
}

// freeAt is the absolute time the vehicle can depart again.
func (r *Runner) freeAt(v int) int64 {
	veh := r.fleet[v]
	if veh.HasDestination() && veh.RemainingServiceTime > r.now {
		return veh.RemainingServiceTime
	}
	return r.now
}

func (r *Runner) onChange(ev events.ChangeEvent) {
	if r.bus != nil {
		r.bus.PublishChange(ev)
	}
	if r.pub != nil {
		if err := r.pub.PublishChange(ev); err != nil {
			r.log.Warnf("publish change: %v", err)
		}
	}
}

func (r *Runner) onAuction(ev events.AuctionEvent) {
	if err := r.sink.RecordAuction(metrics.AuctionResult{
		RequestID: ev.RequestID,
		WinnerID:  ev.WinnerID,
		Bidders:   ev.Bidders,
		BestBid:   ev.BestBid,
		Tie:       ev.Tie,
		Time:      time.Now(),
	}); err != nil {
		r.log.Warnf("record auction: %v", err)
	}
	if r.bus != nil {
		r.bus.PublishAuction(ev)
	}
	if r.pub != nil {
		if err := r.pub.PublishAuction(ev); err != nil {
			r.log.Warnf("publish auction: %v", err)
		}
	}
}

func removeStop(stops []int, stop int) []int {
	for i, s := range stops {
		if s == stop {
			return append(stops[:i], stops[i+1:]...)
		}
	}
	return stops
}

// SolveOffline runs the late-acceptance metaheuristic over the whole
// scenario from scratch, as a centralized baseline for the online run.
func SolveOffline(sc *Scenario, cfg config.SolverConfig, log logger.Logger, sink metrics.MetricsSink) (model.Solution, error) {
	if log == nil {
		log = logger.Nop{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	st := sc.InitialState()
	la := solver.NewLateAcceptanceSolver(cfg.HistoryLength, cfg.MaxIterations,
		solver.Weights{Travel: cfg.TravelWeight, Tardiness: cfg.TardinessWeight}, log)
	start := time.Now()
	sol, err := la.Solve(st, cfg.Seed)
	if err != nil {
		return model.Solution{}, err
	}
	if err := sink.RecordSolve(metrics.SolveResult{
		Solver:     "late_acceptance",
		Objective:  sol.Objective,
		Iterations: cfg.MaxIterations,
		Vehicles:   sc.Vehicles,
		Requests:   len(sc.Requests),
		Duration:   time.Since(start),
		Time:       time.Now(),
	}); err != nil {
		log.Warnf("record solve: %v", err)
	}
	return sol, nil
}
