package main

import "math/rand/v2"

// chooser picks a uniform index in [0, n). Injected so tests can pin the
// selection deterministically.
type chooser func(n int) int

func defaultChooser(n int) int {
	return rand.IntN(n)
}

// selectThemeAndTech picks the next theme and tech focus, avoiding recent
// repeats. Pure: history is only updated on confirmed publish.
//
// Themes whose type appeared in the last 3 published themes are filtered
// out; if that empties the set, the full set is used so selection never
// fails. The tech pool is the union of topics for the theme's allowed
// categories, minus the last 2 published topics, with the same fallback.
func selectThemeAndTech(state *RotationState, choose chooser) (Theme, string) {
	if choose == nil {
		choose = defaultChooser
	}

	recentThemes := lastN(state.LastThemes, 3)
	var eligible []Theme
	for _, t := range themes {
		if !contains(recentThemes, t.Type) {
			eligible = append(eligible, t)
		}
	}
	if len(eligible) == 0 {
		eligible = themes
	}
	theme := eligible[choose(len(eligible))]

	var pool []string
	for _, cat := range theme.AllowedTech {
		pool = append(pool, techFocusAreas[cat]...)
	}

	recentTech := lastN(state.LastTech, 2)
	var eligibleTech []string
	for _, topic := range pool {
		if !contains(recentTech, topic) {
			eligibleTech = append(eligibleTech, topic)
		}
	}
	if len(eligibleTech) == 0 {
		eligibleTech = pool
	}

	return theme, eligibleTech[choose(len(eligibleTech))]
}

func contains(entries []string, value string) bool {
	for _, e := range entries {
		if e == value {
			return true
		}
	}
	return false
}
