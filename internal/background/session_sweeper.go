package background

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/session"
	log "github.com/sirupsen/logrus"
)

// SessionSweeper periodically deletes the expired sessions from the session store. Expired sessions are already
// rejected when they are used; the sweeper keeps the store from growing with sessions nobody comes back to.
type SessionSweeper struct {
	Store    session.Store
	Interval time.Duration
	status   *backgroundServerStatus
	wg       sync.WaitGroup
	chanQuit chan struct{}
}

// NewSessionSweeper creates a sweeper running every `interval`.
func NewSessionSweeper(store session.Store, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		Store:    store,
		Interval: interval,
		status:   newBackgroundServerStatus(),
	}
}

// Start starts sweeping in the background.
func (s *SessionSweeper) Start() error {
	if s.Interval <= 0 {
		return fmt.Errorf("intervalo de limpieza de sesiones no válido: %v", s.Interval)
	}

	if !s.status.transition(stateStopped, stateStarted) {
		return fmt.Errorf("el limpiador de sesiones ya está en marcha")
	}

	log.Infof("Limpiador de sesiones iniciado (cada %v).", s.Interval)
	s.chanQuit = make(chan struct{})
	s.wg.Add(1)
	go s.run(s.chanQuit)

	return nil
}

func (s *SessionSweeper) run(chanQuit <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Sweep(); err != nil {
				log.Warnln(err)
			}
		case <-chanQuit:
			return
		}
	}
}

// Sweep deletes the sessions expired by now and returns how many there were.
func (s *SessionSweeper) Sweep() (int64, error) {
	count, err := s.Store.DeleteExpired(time.Now())
	if err != nil {
		return 0, errors.Wrap(err, "no se pudieron eliminar las sesiones expiradas")
	}

	if count > 0 {
		log.Debugf("Se eliminaron %v sesiones expiradas.", count)
	}

	return count, nil
}

// Stop stops the sweeper.
//
// Returns
//   a wait group that can be used to block the caller Go routine until the sweeper has quit
func (s *SessionSweeper) Stop() (*sync.WaitGroup, error) {
	if s.status.get() == stateStopping {
		return nil, fmt.Errorf("el limpiador de sesiones se está deteniendo")
	}

	if !s.status.transition(stateStarted, stateStopping) {
		return nil, fmt.Errorf("el limpiador de sesiones no está en marcha")
	}

	close(s.chanQuit)
	go func() {
		s.wg.Wait()
		s.status.transition(stateStopping, stateStopped)
	}()

	return &s.wg, nil
}
