package broker

// Fire invokes every live subscriber of topic, in registration order, on the
// calling goroutine. Firing a topic nobody subscribed to does nothing.
//
// The first error returned by a subscriber stops the pass and is returned
// as is. Subscribers found dead during a complete pass are purged afterwards;
// a pass cut short by an error leaves them for the next one.
//
// No lock is held while subscribers run, so a subscriber may fire other
// topics or register new subscriptions.
func (b *Broker) Fire(topic string) error {
	for _, hook := range b.hooks {
		hook(topic)
	}

	refs := b.registry.snapshot(topic)
	if len(refs) == 0 {
		return nil
	}

	needsCleanup := false
	for _, ref := range refs {
		invoke, ok := ref.resolve()
		if !ok {
			needsCleanup = true
			continue
		}
		if err := invoke(); err != nil {
			return err
		}
	}

	if needsCleanup {
		removed := b.registry.compact(topic)
		b.logger.Debug("Compacted subscribers", "topic", topic, "removed", removed)
	}
	return nil
}
