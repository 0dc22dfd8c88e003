package sim

import "errors"

// AnyOf returns an event that is processed at the time the first of evs is
// processed, carrying that input's outcome. If an input is already processed
// the result fires at Now() without waiting for the others. With no inputs
// the result fires at Now().
func (s *Simulation) AnyOf(evs ...*Event) *Event {
	if len(evs) == 0 {
		return s.immediate("any_of", nil)
	}
	for _, ev := range evs {
		if ev.Processed() {
			return s.immediate("any_of", ev.err)
		}
	}

	result := s.NamedEvent("any_of")
	for _, ev := range evs {
		// Only the first input settles the result and claims its failure; a
		// later failure stays unclaimed and is reported.
		ev.AddCallback(func(in *Event) {
			if !result.Pending() {
				return
			}
			in.Defuse()
			result.settle(in.err)
		})
	}
	return result
}

// AllOf returns an event that is processed once every one of evs has been
// processed. Its failure is the join of the inputs' failures, nil if none
// failed. If every input is already processed the result fires at Now().
func (s *Simulation) AllOf(evs ...*Event) *Event {
	var errs []error
	remaining := 0
	for _, ev := range evs {
		if ev.Processed() {
			if ev.err != nil {
				errs = append(errs, ev.err)
			}
			continue
		}
		remaining++
	}
	if remaining == 0 {
		return s.immediate("all_of", errors.Join(errs...))
	}

	// remaining and errs are shared by every callback below.
	result := s.NamedEvent("all_of")
	for _, ev := range evs {
		if ev.Processed() {
			continue
		}
		ev.AddCallback(func(in *Event) {
			if in.err != nil {
				in.Defuse()
				errs = append(errs, in.err)
			}
			remaining--
			if remaining == 0 {
				result.settle(errors.Join(errs...))
			}
		})
	}
	return result
}
