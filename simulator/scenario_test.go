package simulator

import (
	"reflect"
	"testing"

	"fleetmas/config"
)

func testScenarioConfig() config.ScenarioConfig {
	cfg := config.ScenarioConfig{Vehicles: 2, Requests: 5, Seed: 42}
	cfg.SetDefaults()
	return cfg
}

func TestGenerateSameSeedSameScenario(t *testing.T) {
	a := Generate(testScenarioConfig())
	b := Generate(testScenarioConfig())
	if !reflect.DeepEqual(a, b) {
		t.Error("identical seeds produced different scenarios")
	}
}

func TestGenerateIndexing(t *testing.T) {
	sc := Generate(testScenarioConfig())
	if got, want := sc.NumStops(), 2*5+2; got != want {
		t.Fatalf("stops = %d, want %d", got, want)
	}
	for i, r := range sc.Requests {
		if r.PickupIndex != 1+2*i || r.DeliveryIndex != 2+2*i {
			t.Errorf("request %d has indices %d/%d", i, r.PickupIndex, r.DeliveryIndex)
		}
		if got, err := sc.RequestAt(r.PickupIndex); err != nil || got != r {
			t.Errorf("RequestAt(%d) = %v, %v", r.PickupIndex, got, err)
		}
		if got, err := sc.RequestAt(r.DeliveryIndex); err != nil || got != r {
			t.Errorf("RequestAt(%d) = %v, %v", r.DeliveryIndex, got, err)
		}
		if !r.PickupWindow.Contains(r.ReleaseDate) {
			t.Errorf("request %d released outside its pickup window", i)
		}
		if r.DeliveryWindow.Start < r.PickupWindow.Start {
			t.Errorf("request %d delivery opens before pickup", i)
		}
	}
	if _, err := sc.RequestAt(0); err == nil {
		t.Error("depot sentinel resolved to a request")
	}
	if _, err := sc.RequestAt(sc.NumStops() - 1); err == nil {
		t.Error("end sentinel resolved to a request")
	}
}

func TestGenerateTravelTimeMatrix(t *testing.T) {
	sc := Generate(testScenarioConfig())
	n := sc.NumStops()
	for i := 0; i < n; i++ {
		if sc.TravelTime[i][i] != 0 {
			t.Errorf("self distance of %d is %d", i, sc.TravelTime[i][i])
		}
		for j := 0; j < n; j++ {
			if sc.TravelTime[i][j] != sc.TravelTime[j][i] {
				t.Errorf("matrix asymmetric at %d,%d", i, j)
			}
			if sc.TravelTime[i][j] < 0 {
				t.Errorf("negative travel time at %d,%d", i, j)
			}
		}
	}
}

func TestInitialStateIsValid(t *testing.T) {
	sc := Generate(testScenarioConfig())
	st := sc.InitialState()
	if err := st.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(st.ServicePairs) != len(sc.Requests) {
		t.Errorf("pairs = %d, want %d", len(st.ServicePairs), len(sc.Requests))
	}
	if st.NumVehicles() != sc.Vehicles {
		t.Errorf("vehicles = %d, want %d", st.NumVehicles(), sc.Vehicles)
	}
}
