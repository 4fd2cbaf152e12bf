/*
 * Lock - Test suite.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package commit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_lockTable(t *testing.T) {
	locks := newLockTable()
	key := lockKey{target: "srv-1", path: "/var/named/example.com.zone"}

	release, err := locks.acquire(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, 1, locks.size())

	// another file of the same target is independent
	other, err := locks.acquire(context.Background(), lockKey{target: "srv-1", path: "/var/named/example.org.zone"})
	require.NoError(t, err)
	assert.Equal(t, 2, locks.size())
	other()

	// the same file of another target is independent
	other, err = locks.acquire(context.Background(), lockKey{target: "srv-2", path: key.path})
	require.NoError(t, err)
	other()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locks.acquire(ctx, key)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, 1, locks.size())

	acquired := make(chan func())
	go func() {
		r, err := locks.acquire(context.Background(), key)
		if err == nil {
			acquired <- r
		}
	}()
	select {
	case <-acquired:
		t.Fatal("lock acquired while held")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	release() // no-op
	select {
	case r := <-acquired:
		r()
	case <-time.After(5 * time.Second):
		t.Fatal("lock not handed over")
	}
	assert.Equal(t, 0, locks.size())
}

func Test_Stage(t *testing.T) {
	type testCase struct {
		stage    Stage
		expected bool
	}

	run := func(t *testing.T, tc testCase) {
		assert.Equal(t, tc.expected, tc.stage.Cancellable())
	}

	testCases := []testCase{
		{stage: StageIdle, expected: false},
		{stage: StageReading, expected: true},
		{stage: StageParsing, expected: true},
		{stage: StageMutating, expected: true},
		{stage: StageSerializing, expected: true},
		{stage: StageValidating, expected: true},
		{stage: StageWriting, expected: false},
		{stage: StageReloading, expected: false},
		{stage: StageVerifying, expected: false},
		{stage: StageDone, expected: false},
		{stage: StageFailed, expected: false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.stage), func(t *testing.T) {
			run(t, tc)
		})
	}
}
