// Package catalog holds the fixed in-app list of detailing packages and
// add-ons. The mobile client renders the same list; identifiers are the
// contract between client, bookings and availability slots.
package catalog

type Package struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

type AddOn struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

var packages = []Package{
	{ID: "CORE", Name: "CORE™", DurationMinutes: 90, Price: 129},
	{ID: "PRO", Name: "PRO™", DurationMinutes: 120, Price: 179},
	{ID: "ULTRA", Name: "ULTRA™", DurationMinutes: 180, Price: 249},
	{ID: "SAPPHIRE", Name: "SAPPHIRE™", DurationMinutes: 240, Price: 399},
	{ID: "EMERALD", Name: "EMERALD™", DurationMinutes: 360, Price: 549},
	{ID: "DIAMOND", Name: "DIAMOND™", DurationMinutes: 480, Price: 749},
}

var addOns = []AddOn{
	{ID: "ENGINE_BAY", Name: "Engine Bay Detail", Price: 39},
	{ID: "PET_HAIR", Name: "Pet Hair Removal", Price: 49},
	{ID: "ODOR_TREATMENT", Name: "Odor Treatment", Price: 59},
	{ID: "HEADLIGHT_RESTORE", Name: "Headlight Restoration", Price: 69},
}

var packageIndex = buildPackageIndex()
var addOnIndex = buildAddOnIndex()

func buildPackageIndex() map[string]Package {
	idx := make(map[string]Package, len(packages))
	for _, p := range packages {
		idx[p.ID] = p
	}
	return idx
}

func buildAddOnIndex() map[string]AddOn {
	idx := make(map[string]AddOn, len(addOns))
	for _, a := range addOns {
		idx[a.ID] = a
	}
	return idx
}

func Packages() []Package {
	out := make([]Package, len(packages))
	copy(out, packages)
	return out
}

func AddOns() []AddOn {
	out := make([]AddOn, len(addOns))
	copy(out, addOns)
	return out
}

func GetPackage(id string) (Package, bool) {
	p, ok := packageIndex[id]
	return p, ok
}

func GetAddOn(id string) (AddOn, bool) {
	a, ok := addOnIndex[id]
	return a, ok
}

func IsKnownPackage(id string) bool {
	_, ok := packageIndex[id]
	return ok
}

// ComputeTotal sums catalog prices for the given selection. Unknown
// identifiers are reported via ok=false so callers can reject the request
// instead of silently underpricing it.
func ComputeTotal(services, addons []string) (float64, bool) {
	var total float64
	for _, id := range services {
		p, found := packageIndex[id]
		if !found {
			return 0, false
		}
		total += p.Price
	}
	for _, id := range addons {
		a, found := addOnIndex[id]
		if !found {
			return 0, false
		}
		total += a.Price
	}
	return total, true
}
