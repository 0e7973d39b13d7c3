package bot

import "sync"

// sequencer runs jobs concurrently across keys but strictly in order
// within one key. A user's second update is handled only after their
// first one finished, which keeps read-modify-write flows sane without
// any global ordering.
type sequencer struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	queues map[int64][]func()
}

func newSequencer() *sequencer {
	return &sequencer{queues: make(map[int64][]func())}
}

// submit enqueues the job for its key. The first job for an idle key
// also starts that key's drain goroutine.
func (s *sequencer) submit(key int64, job func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, active := s.queues[key]
	s.queues[key] = append(pending, job)

	if !active {
		s.wg.Add(1)
		go s.drain(key)
	}
}

func (s *sequencer) drain(key int64) {
	defer s.wg.Done()

	for {
		s.mu.Lock()

		q := s.queues[key]
		if len(q) == 0 {
			delete(s.queues, key)
			s.mu.Unlock()

			return
		}

		job := q[0]
		s.queues[key] = q[1:]
		s.mu.Unlock()

		job()
	}
}

// wait blocks until every queue has drained. Callers must stop
// submitting first.
func (s *sequencer) wait() {
	s.wg.Wait()
}
