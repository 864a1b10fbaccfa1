// Package serviceareas answers whether the business serves a postal code.
// Coverage is a static map of GTA cities to their postal-code prefixes;
// matching is by prefix on the normalized code, no geocoding involved.
package serviceareas

import "strings"

type area struct {
	City     string
	Prefixes []string
}

var areas = []area{
	{City: "Scarborough", Prefixes: []string{"M1"}},
	{City: "North York", Prefixes: []string{"M2", "M3"}},
	{City: "East York", Prefixes: []string{"M4B", "M4C", "M4G", "M4H", "M4J"}},
	{City: "Toronto", Prefixes: []string{"M4", "M5", "M6", "M7"}},
	{City: "Etobicoke", Prefixes: []string{"M8", "M9"}},
	{City: "Mississauga", Prefixes: []string{"L4T", "L4W", "L4X", "L4Y", "L4Z", "L5"}},
	{City: "Brampton", Prefixes: []string{"L6P", "L6R", "L6S", "L6T", "L6V", "L6W", "L6X", "L6Y", "L6Z", "L7A"}},
	{City: "Markham", Prefixes: []string{"L3P", "L3R", "L3S", "L6B", "L6C", "L6E", "L6G"}},
	{City: "Vaughan", Prefixes: []string{"L4H", "L4J", "L4K", "L4L", "L6A"}},
	{City: "Richmond Hill", Prefixes: []string{"L4B", "L4C", "L4E", "L4S"}},
}

// Normalize uppercases and strips spaces so "m1b 2k9" matches "M1B".
func Normalize(code string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), " ", ""))
}

// Lookup returns the serving city for a postal code, if any. More specific
// prefixes win: East York's M4B is checked before Toronto's bare M4.
func Lookup(code string) (string, bool) {
	normalized := Normalize(code)
	if normalized == "" {
		return "", false
	}
	for _, a := range areas {
		for _, prefix := range a.Prefixes {
			if strings.HasPrefix(normalized, prefix) {
				return a.City, true
			}
		}
	}
	return "", false
}

func IsAvailable(code string) bool {
	_, ok := Lookup(code)
	return ok
}

func Cities() []string {
	out := make([]string, 0, len(areas))
	for _, a := range areas {
		out = append(out, a.City)
	}
	return out
}
