package queue

import "errors"

// Multi publishes to every queue, e.g. the in-process queue and the broker.
type Multi []Queue

func (m Multi) Publish(topic string, payload any) error {
	var errs []error
	for _, q := range m {
		if err := q.Publish(topic, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Subscribe(topic string, handler func(payload any) error) error {
	for _, q := range m {
		if err := q.Subscribe(topic, handler); err != nil {
			return err
		}
	}
	return nil
}
