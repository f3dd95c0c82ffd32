package app

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLock_SerialisesSameKey(t *testing.T) {
	l := NewKeyedLock()
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock(7)
			defer unlock()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, l.size())
}

func TestKeyedLock_IndependentKeys(t *testing.T) {
	l := NewKeyedLock()
	u1 := l.Lock(1)
	u2 := l.Lock(2)
	assert.Equal(t, 2, l.size())
	u1()
	u2()
	assert.Equal(t, 0, l.size())
}

func TestLockQuiz_SeparateFromCourseKeys(t *testing.T) {
	s := &Server{locks: NewKeyedLock()}
	unlockQuiz := s.lockQuiz(7)
	unlockCourse := s.locks.Lock(7)
	assert.Equal(t, 2, s.locks.size())
	unlockCourse()
	unlockQuiz()
	assert.Equal(t, 0, s.locks.size())
}
