// This file is part of arm7core.
//
// arm7core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// arm7core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with arm7core.  If not, see <https://www.gnu.org/licenses/>.

package scheduler

// EventID identifies a scheduled event. Returned by AddEvent() and used by
// CancelEvent().
type EventID int

// Callback is the function called when an event fires.
type Callback func()

type event struct {
	id EventID

	// cycles after the previous event in the list. the first event in the
	// list counts from the current time
	delta int64

	cb   Callback
	prev *event
	next *event
}

// delta list of events
type eventList struct {
	head *event
	tail *event

	nextID EventID
}

// add an event to happen after the number of cycles. an event with a time of
// zero or less is called immediately and is not added to the list
func (el *eventList) add(cycles int64, cb Callback) EventID {
	el.nextID++
	id := el.nextID

	if cycles <= 0 {
		cb()
		return id
	}

	ev := &event{id: id, delta: cycles, cb: cb}

	// empty list
	if el.head == nil {
		el.head = ev
		el.tail = ev
		return id
	}

	// find the insertion point. events with the same time fire in the order
	// they were added
	for p := el.head; p != nil; p = p.next {
		if ev.delta < p.delta {
			p.delta -= ev.delta
			ev.prev = p.prev
			ev.next = p
			p.prev = ev
			if ev.prev != nil {
				ev.prev.next = ev
			} else {
				el.head = ev
			}
			return id
		}
		ev.delta -= p.delta
	}

	// end of list
	ev.prev = el.tail
	el.tail.next = ev
	el.tail = ev
	return id
}

// remove an event from the list. returns false if the event is not in the
// list
func (el *eventList) cancel(id EventID) bool {
	for p := el.head; p != nil; p = p.next {
		if p.id != id {
			continue // for loop
		}

		// the next event inherits the remaining time
		if p.next != nil {
			p.next.delta += p.delta
			p.next.prev = p.prev
		} else {
			el.tail = p.prev
		}

		if p.prev != nil {
			p.prev.next = p.next
		} else {
			el.head = p.next
		}

		return true
	}
	return false
}

// advance time by the number of cycles and call every event that falls due.
// callbacks are allowed to add new events
func (el *eventList) advance(cycles int64) {
	if el.head == nil {
		return
	}

	el.head.delta -= cycles
	for el.head != nil && el.head.delta <= 0 {
		ev := el.head

		// time beyond the event is carried into the next event
		overrun := ev.delta

		el.head = ev.next
		if el.head != nil {
			el.head.prev = nil
			el.head.delta += overrun
		} else {
			el.tail = nil
		}

		ev.cb()
	}
}

// number of events in the list
func (el *eventList) len() int {
	n := 0
	for p := el.head; p != nil; p = p.next {
		n++
	}
	return n
}
