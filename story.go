package main

// The career arc. Acts are cyclic: after the last act the arc wraps back to
// the first one, so the bot never runs out of story.
var acts = []Act{
	{Name: "ACT I – Early Confidence & First Systems", MaxEpisodes: 8},
	{Name: "ACT II – Scaling Pressure & Hidden Complexity", MaxEpisodes: 10},
	{Name: "ACT III – Incidents, Failures, Reality", MaxEpisodes: 8},
	{Name: "ACT IV – Trade-offs & Simplification", MaxEpisodes: 6},
	{Name: "ACT V – Ownership, Leadership, People Systems", MaxEpisodes: 6},
	{Name: "ACT VI – Judgment, Restraint, Engineering Wisdom", MaxEpisodes: 6},
}

// techFocusAreas maps a category to the literal topics a post may center on.
var techFocusAreas = map[string][]string{
	"distributed_data": {"Cassandra", "CQRS", "Schema Evolution"},
	"caching":          {"Redis", "Cache Invalidation", "Distributed Locking"},
	"async":            {"Kafka Consumer Lag", "Idempotency", "Event Ordering"},
	"infra":            {"Kubernetes OOMs", "Cold Starts", "Connection Pooling"},
	"observability":    {"Misleading Metrics", "Alert Fatigue", "SLIs/SLOs"},
	"ownership":        {"API Contracts", "Dependency Drift", "Legacy Migrations"},
}

var themes = []Theme{
	{Type: "THE ARCHITECTURAL TRAP 🏗️", Tone: "Humble, analytical", AllowedTech: []string{"distributed_data", "caching", "async"}},
	{Type: "THE HUMAN ALGORITHM 🤝", Tone: "Reflective, empathetic", AllowedTech: []string{"ownership", "async", "observability"}},
	{Type: "THE CRASH 🚨", Tone: "Calm urgency", AllowedTech: []string{"infra", "async", "caching"}},
	{Type: "THE FALSE FIX 🔧", Tone: "Analytical, corrective", AllowedTech: []string{"caching", "infra"}},
	{Type: "THE METRIC LIE 📊", Tone: "Skeptical, reflective", AllowedTech: []string{"observability"}},
	{Type: "THE OWNERSHIP GAP 🧩", Tone: "Leadership-focused", AllowedTech: []string{"ownership"}},
	{Type: "THE EUREKA MOMENT 💡", Tone: "Inspiring, energetic", AllowedTech: []string{"distributed_data", "caching"}},
	{Type: "THE SILENT VICTORY 🏆", Tone: "Proud, technical", AllowedTech: []string{"infra", "observability"}},
	{Type: "THE BORING STACK ❤️", Tone: "Pragmatic, counter-culture", AllowedTech: []string{"distributed_data", "infra"}},
}

// historyWindow is how many recent themes/tech entries the state keeps.
const historyWindow = 5

// newRotationState returns the state a fresh installation starts from.
func newRotationState() *RotationState {
	return &RotationState{
		ActIndex:        0,
		Episode:         1,
		PreviousLessons: []string{},
		LastThemes:      []string{},
		LastTech:        []string{},
	}
}

// currentAct resolves the act the state points at. An out-of-range index
// (hand-edited state file) clamps back to the first act rather than panicking.
func (s *RotationState) currentAct() Act {
	if s.ActIndex < 0 || s.ActIndex >= len(acts) {
		return acts[0]
	}
	return acts[s.ActIndex]
}

// advance moves the (act, episode) counter one step: episode+1 within the
// act, or (next act, 1) when the act's episode budget is exhausted. The act
// index wraps, so the arc repeats indefinitely.
func (s *RotationState) advance() {
	s.Episode++
	if s.Episode > s.currentAct().MaxEpisodes {
		s.Episode = 1
		s.ActIndex = (s.ActIndex + 1) % len(acts)
	}
}

// recordPublish folds a published draft into the history and advances the
// episode counter. Called only after the remote publish is confirmed.
func (s *RotationState) recordPublish(draft *Draft) {
	s.PreviousLessons = append(s.PreviousLessons, draft.LessonExtracted)
	s.LastThemes = trimHistory(append(s.LastThemes, draft.MetaTheme))
	s.LastTech = trimHistory(append(s.LastTech, draft.MetaTech))
	s.advance()
}

// trimHistory keeps only the most recent historyWindow entries.
func trimHistory(entries []string) []string {
	if len(entries) <= historyWindow {
		return entries
	}
	return entries[len(entries)-historyWindow:]
}

// lastN returns the trailing n entries of a history list.
func lastN(entries []string, n int) []string {
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}
