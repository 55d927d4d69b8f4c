package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `lot:
  name: "Park-Wella Parking Hub"
  address: "Lagos, Nigeria"
  uid: "1234"
  regular_spots_per_floor: 10
  floors:
    - id: 1
      extra:
        - class: "large"
          count: 5
    - id: 2
billing:
  rate_per_hour: 12.5
history:
  enabled: true
  backend: "sqlite"
  path: "tickets.db"
metrics:
  prometheus_enabled: true
  prometheus_port: ":9091"
mqtt:
  enabled: false
  broker: "tcp://localhost:1883"
api:
  addr: ":8081"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"lot.name", cfg.Lot.Name, "Park-Wella Parking Hub"},
		{"lot.uid", cfg.Lot.UID, "1234"},
		{"lot.floors", len(cfg.Lot.Floors), 2},
		{"lot.extra_class", cfg.Lot.Floors[0].Extra[0].Class, "large"},
		{"billing.rate", cfg.Billing.RatePerHour, 12.5},
		{"history.backend", cfg.History.Backend, "sqlite"},
		{"metrics.prom_port", cfg.Metrics.PrometheusPort, ":9091"},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"api.addr", cfg.API.Addr, ":8081"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("lot:\n  name: minimal\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Lot.RegularSpotsPerFloor != 10 {
		t.Errorf("regular spots default = %d", cfg.Lot.RegularSpotsPerFloor)
	}
	if cfg.Billing.RatePerHour != 10 {
		t.Errorf("rate default = %v", cfg.Billing.RatePerHour)
	}
	if cfg.History.Backend != "jsonl" {
		t.Errorf("history backend default = %s", cfg.History.Backend)
	}
	if cfg.API.Addr != ":8080" {
		t.Errorf("api addr default = %s", cfg.API.Addr)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLotConfigValidate(t *testing.T) {
	c := LotConfig{Floors: []FloorConfig{{ID: 1}, {ID: 1}}}
	if err := c.Validate(); err == nil {
		t.Fatal("expected duplicate floor error")
	}
	c = LotConfig{Floors: []FloorConfig{{ID: 1, Extra: []SpotConfig{{Class: "tiny", Count: 1}}}}}
	if err := c.Validate(); err == nil {
		t.Fatal("expected unknown class error")
	}
}

func TestLotConfigBuild(t *testing.T) {
	c := LotConfig{
		Name: "test", UID: "u1", RegularSpotsPerFloor: 2,
		Floors: []FloorConfig{{ID: 1, Extra: []SpotConfig{{Class: "large", Count: 3}}}},
	}
	p, err := c.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	snap := p.DisplayInfo()
	if snap.Floors != 1 || snap.TotalSpots != 5 {
		t.Fatalf("unexpected snapshot %#v", snap)
	}
}
