// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package notify

// MockSender records every delivery for tests to inspect. Err, when set,
// is returned from both Info and Critical.
type MockSender struct {
	Err error

	calls []string
	msg   *Message
}

func (s *MockSender) Info(msg *Message) error {
	return s.record("info", msg)
}

func (s *MockSender) Critical(msg *Message) error {
	return s.record("critical", msg)
}

func (s *MockSender) record(severity string, msg *Message) error {
	s.calls = append(s.calls, severity)
	s.msg = msg
	return s.Err
}

func (s *MockSender) InfoWasCalled() bool {
	return s.wasCalled("info")
}

func (s *MockSender) CriticalWasCalled() bool {
	return s.wasCalled("critical")
}

func (s *MockSender) wasCalled(severity string) bool {
	for i := range s.calls {
		if s.calls[i] == severity {
			return true
		}
	}
	return false
}

// CapturedMessage returns the most recent Message delivered at any severity.
func (s *MockSender) CapturedMessage() *Message {
	return s.msg
}
