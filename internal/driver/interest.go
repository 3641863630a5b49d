package driver

// Event-interest names for record subscriptions.
const (
	interestExisting = "existing"
	interestChange   = "change"
	interestDiscard  = "discard"
	interestDelete   = "delete"
	interestError    = "error"
)

// Event-interest names specific to list subscriptions.
const (
	interestEntryExisting = "entry-existing"
	interestEntryAdded    = "entry-added"
	interestEntryMoved    = "entry-moved"
	interestEntryRemoved  = "entry-removed"
)

// interestSet decides which backend callbacks a subscribe operation
// attaches. Kind-specific defaults are all true; a caller-supplied partial
// set overrides individual entries.
type interestSet map[string]bool

// recordInterest merges caller overrides over the record defaults.
func recordInterest(overrides map[string]bool) interestSet {
	set := interestSet{
		interestExisting: true,
		interestChange:   true,
		interestDiscard:  true,
		interestDelete:   true,
		interestError:    true,
	}
	set.apply(overrides)
	return set
}

// listInterest merges caller overrides over the list defaults.
func listInterest(overrides map[string]bool) interestSet {
	set := interestSet{
		interestChange:        true,
		interestEntryExisting: true,
		interestDiscard:       true,
		interestDelete:        true,
		interestError:         true,
		interestEntryAdded:    true,
		interestEntryMoved:    true,
		interestEntryRemoved:  true,
	}
	set.apply(overrides)
	return set
}

// apply overwrites defaults with caller-supplied values. Keys outside the
// default set are ignored rather than attached.
func (s interestSet) apply(overrides map[string]bool) {
	for name, want := range overrides {
		if _, known := s[name]; known {
			s[name] = want
		}
	}
}
