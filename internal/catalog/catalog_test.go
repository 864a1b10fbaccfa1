package catalog

import "testing"

func TestGetPackage(t *testing.T) {
	p, ok := GetPackage("CORE")
	if !ok {
		t.Fatalf("expected CORE to exist")
	}
	if p.Price != 129 {
		t.Fatalf("CORE price = %v, want 129", p.Price)
	}

	if _, ok := GetPackage("PLATINUM"); ok {
		t.Fatalf("did not expect PLATINUM to exist")
	}
}

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name     string
		services []string
		addons   []string
		want     float64
		wantOK   bool
	}{
		{name: "single package", services: []string{"CORE"}, want: 129, wantOK: true},
		{name: "package with addons", services: []string{"PRO"}, addons: []string{"PET_HAIR", "ENGINE_BAY"}, want: 267, wantOK: true},
		{name: "unknown package", services: []string{"GOLD"}, wantOK: false},
		{name: "unknown addon", services: []string{"CORE"}, addons: []string{"WAX"}, wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ComputeTotal(tc.services, tc.addons)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Fatalf("total = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPackagesCopy(t *testing.T) {
	list := Packages()
	list[0].Price = 0
	if p, _ := GetPackage(list[0].ID); p.Price == 0 {
		t.Fatalf("Packages must return a copy")
	}
}
