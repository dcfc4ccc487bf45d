package broker

import (
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// subscriberList is the ordered sequence of subscriptions for one topic.
type subscriberList struct {
	refs []handlerRef
}

// compact removes every inert entry by moving the last entry into the freed
// slot and shrinking the list. Surviving entries may change order.
func (l *subscriberList) compact() int {
	removed := 0
	i := 0
	for i < len(l.refs) {
		if l.refs[i].alive() {
			i++
			continue
		}
		last := len(l.refs) - 1
		l.refs[i] = l.refs[last]
		l.refs[last] = nil
		l.refs = l.refs[:last]
		removed++
	}
	return removed
}

// registry maps topics to their subscribers. Topics keep the order in which
// they were first subscribed to.
type registry struct {
	mu     sync.RWMutex
	topics *orderedmap.OrderedMap[string, *subscriberList]
}

func newRegistry() *registry {
	return &registry{
		topics: orderedmap.New[string, *subscriberList](),
	}
}

// add appends ref to topic's list, creating the list if needed, and returns
// the new length. Duplicates are kept.
func (r *registry) add(topic string, ref handlerRef) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.topics.Get(topic)
	if !ok {
		list = &subscriberList{}
		r.topics.Set(topic, list)
	}
	list.refs = append(list.refs, ref)
	return len(list.refs)
}

// lookup returns the live list for topic. Callers must hold r.mu.
func (r *registry) lookup(topic string) (*subscriberList, bool) {
	list, ok := r.topics.Get(topic)
	if !ok || len(list.refs) == 0 {
		return nil, false
	}
	return list, true
}

// snapshot copies topic's subscriptions so they can be invoked without
// holding the lock.
func (r *registry) snapshot(topic string) []handlerRef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list, ok := r.lookup(topic)
	if !ok {
		return nil
	}
	refs := make([]handlerRef, len(list.refs))
	copy(refs, list.refs)
	return refs
}

// compact purges inert subscriptions from topic and drops the topic once
// nothing is left. It returns the number of entries removed.
func (r *registry) compact(topic string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.lookup(topic)
	if !ok {
		return 0
	}
	removed := list.compact()
	if len(list.refs) == 0 {
		r.topics.Delete(topic)
	}
	return removed
}

// len returns the logical length of topic's list, dead entries included.
func (r *registry) len(topic string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list, ok := r.lookup(topic)
	if !ok {
		return 0
	}
	return len(list.refs)
}

// names returns every topic with at least one subscription.
func (r *registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, r.topics.Len())
	for pair := r.topics.Oldest(); pair != nil; pair = pair.Next() {
		if len(pair.Value.refs) > 0 {
			names = append(names, pair.Key)
		}
	}
	return names
}
