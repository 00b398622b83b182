package service

import "time"

func (s *SessionService) SetNow(now func() time.Time) {
	s.now = now
}
