package observable_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-observable-go/observable"
	"github.com/AntonStoeckl/dynamic-streams-observable-go/observable/observabletest"
)

func Test_New_WithNilSubscribeFunc_Fails(t *testing.T) {
	_, err := observable.New[int, error](nil)

	assert.ErrorIs(t, err, observable.ErrNilSubscribeFunc)
}

func Test_New_WithEmptyName_Fails(t *testing.T) {
	_, err := observable.New(
		func(*observable.Observer[int, error]) observable.Teardown { return nil },
		observable.WithName(""),
	)

	assert.ErrorIs(t, err, observable.ErrEmptyObservableName)
}

func Test_New_WithName(t *testing.T) {
	obs, err := observable.New(
		func(*observable.Observer[int, error]) observable.Teardown { return nil },
		observable.WithName("numbers"),
	)

	require.NoError(t, err)
	assert.Equal(t, "numbers", obs.Name())
}

func Test_Subscribe_ZeroValueObservable_ReturnsClosedSubscription(t *testing.T) {
	// arrange
	var obs observable.Observable[int, error]
	recorder := observabletest.NewRecorder[int, error]()

	// act
	sub := obs.Subscribe(recorder.Handlers())

	// assert
	assert.True(t, sub.IsUnsubscribed())
	assert.Empty(t, sub.ID())
	assert.Empty(t, recorder.Notifications())
	assert.NotPanics(t, sub.Unsubscribe)
}

func Test_Subscribe_UnsubscribeIsIdempotent(t *testing.T) {
	// arrange
	teardowns := 0
	obs, err := observable.New(func(o *observable.Observer[int, error]) observable.Teardown {
		o.Next(1)
		return func() { teardowns++ }
	})
	require.NoError(t, err)

	// act
	sub := obs.Subscribe(observable.Handlers[int, error]{})
	assert.False(t, sub.IsUnsubscribed())
	assert.Equal(t, 0, teardowns, "teardown must not run before unsubscribe")

	for range 5 {
		sub.Unsubscribe()
	}

	// assert
	assert.True(t, sub.IsUnsubscribed())
	assert.Equal(t, 1, teardowns)
}

func Test_Subscribe_TerminalNotificationRunsTeardownWithoutUnsubscribe(t *testing.T) {
	tests := []struct {
		name    string
		produce func(o *observable.Observer[int, error])
		kinds   []observable.Kind
	}{
		{
			name:    "complete",
			produce: func(o *observable.Observer[int, error]) { o.Complete() },
			kinds:   []observable.Kind{observable.KindComplete},
		},
		{
			name:    "error",
			produce: func(o *observable.Observer[int, error]) { o.Error(errors.New("boom")) },
			kinds:   []observable.Kind{observable.KindError},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			teardowns := 0
			recorder := observabletest.NewRecorder[int, error]()
			obs, err := observable.New(func(o *observable.Observer[int, error]) observable.Teardown {
				tt.produce(o)
				return func() { teardowns++ }
			})
			require.NoError(t, err)

			// act
			sub := obs.Subscribe(recorder.Handlers())

			// assert
			assert.Equal(t, tt.kinds, recorder.Kinds())
			assert.True(t, sub.IsUnsubscribed())
			assert.Equal(t, 1, teardowns)

			sub.Unsubscribe()
			assert.Equal(t, 1, teardowns, "unsubscribe after a terminal notification must not run teardown again")
		})
	}
}

func Test_Subscribe_NoNotificationAfterTerminal(t *testing.T) {
	// arrange
	teardowns := 0
	recorder := observabletest.NewRecorder[int, error]()
	obs, err := observable.New(func(o *observable.Observer[int, error]) observable.Teardown {
		o.Next(1)
		o.Complete()
		o.Next(2)
		o.Error(errors.New("late"))
		o.Complete()
		return func() { teardowns++ }
	})
	require.NoError(t, err)

	// act
	obs.Subscribe(recorder.Handlers())

	// assert
	assert.Equal(t, []observable.Kind{observable.KindNext, observable.KindComplete}, recorder.Kinds())
	assert.Equal(t, []int{1}, recorder.Values())
	assert.Empty(t, recorder.Errors())
	assert.Equal(t, 1, teardowns)
}

func Test_Subscribe_ErrorThenCompleteDeliversOnlyError(t *testing.T) {
	// arrange
	boom := errors.New("boom")
	recorder := observabletest.NewRecorder[int, error]()
	obs, err := observable.New(func(o *observable.Observer[int, error]) observable.Teardown {
		o.Error(boom)
		o.Complete()
		return nil
	})
	require.NoError(t, err)

	// act
	obs.Subscribe(recorder.Handlers())

	// assert
	assert.Equal(t, []error{boom}, recorder.Errors())
	assert.Equal(t, 0, recorder.Completions())
}

func Test_Subscribe_ErrorPayloadIsForwardedVerbatim(t *testing.T) {
	// arrange
	type failure struct {
		Code   int
		Reason string
	}

	var received failure
	obs, err := observable.Throw[string](failure{Code: 404, Reason: "not found"})
	require.NoError(t, err)

	// act
	obs.Subscribe(observable.Handlers[string, failure]{
		Error: func(f failure) { received = f },
	})

	// assert
	assert.Equal(t, failure{Code: 404, Reason: "not found"}, received)
}

func Test_Subscribe_MissingHandlersStillTerminateAndTearDown(t *testing.T) {
	// arrange
	teardowns := 0
	obs, err := observable.New(func(o *observable.Observer[int, error]) observable.Teardown {
		o.Next(1)
		o.Error(errors.New("nobody listens"))
		return func() { teardowns++ }
	})
	require.NoError(t, err)

	// act
	sub := obs.Subscribe(observable.Handlers[int, error]{})

	// assert
	assert.True(t, sub.IsUnsubscribed())
	assert.Equal(t, 1, teardowns)
}

func Test_Subscribe_UnsubscribeBeforeDeferredEmission(t *testing.T) {
	// arrange
	var deferred *observable.Observer[int, error]
	teardowns := 0
	recorder := observabletest.NewRecorder[int, error]()
	obs, err := observable.New(func(o *observable.Observer[int, error]) observable.Teardown {
		deferred = o
		return func() { teardowns++ }
	})
	require.NoError(t, err)

	// act
	sub := obs.Subscribe(recorder.Handlers())
	sub.Unsubscribe()

	deferred.Next(1)
	deferred.Complete()

	// assert
	assert.Empty(t, recorder.Notifications())
	assert.Equal(t, 1, teardowns)
}

func Test_Subscribe_UnsubscribeFromStartRunsTeardownOnce(t *testing.T) {
	// arrange
	teardowns := 0
	produced := false
	recorder := observabletest.NewRecorder[int, error]()
	obs, err := observable.New(func(o *observable.Observer[int, error]) observable.Teardown {
		if !o.IsUnsubscribed() {
			produced = true
			o.Next(1)
		}
		return func() { teardowns++ }
	})
	require.NoError(t, err)

	handlers := recorder.Handlers()
	handlers.Start = func(sub observable.Subscription) { sub.Unsubscribe() }

	// act
	sub := obs.Subscribe(handlers)

	// assert
	assert.False(t, produced)
	assert.Empty(t, recorder.Notifications())
	assert.True(t, sub.IsUnsubscribed())
	assert.Equal(t, 1, teardowns, "teardown must run as soon as it is attached to a closed subscription")
}

func Test_Subscribe_ReentrantUnsubscribeFromTerminalHandler(t *testing.T) {
	// arrange
	teardowns := 0
	completions := 0
	var sub observable.Subscription
	obs, err := observable.New(func(o *observable.Observer[int, error]) observable.Teardown {
		o.Complete()
		return func() { teardowns++ }
	})
	require.NoError(t, err)

	// act
	obs.Subscribe(observable.Handlers[int, error]{
		Start: func(s observable.Subscription) { sub = s },
		Complete: func() {
			completions++
			sub.Unsubscribe()
			sub.Unsubscribe()
		},
	})

	// assert
	assert.Equal(t, 1, completions)
	assert.Equal(t, 1, teardowns)
}

func Test_Subscribe_ReentrantTerminalFromErrorHandlerIsIgnored(t *testing.T) {
	// arrange
	var observer *observable.Observer[int, error]
	recorder := observabletest.NewRecorder[int, error]()
	handlers := recorder.Handlers()
	recordError := handlers.Error
	handlers.Error = func(err error) {
		recordError(err)
		observer.Complete()
		observer.Error(err)
	}

	obs, err := observable.New(func(o *observable.Observer[int, error]) observable.Teardown {
		observer = o
		o.Error(errors.New("first"))
		return nil
	})
	require.NoError(t, err)

	// act
	obs.Subscribe(handlers)

	// assert
	assert.Equal(t, []observable.Kind{observable.KindError}, recorder.Kinds())
}

func Test_Subscribe_TeardownCallingUnsubscribeRunsOnce(t *testing.T) {
	// arrange
	teardowns := 0
	var sub observable.Subscription
	obs, err := observable.New(func(o *observable.Observer[int, error]) observable.Teardown {
		return func() {
			teardowns++
			sub.Unsubscribe()
		}
	})
	require.NoError(t, err)

	// act
	sub = obs.Subscribe(observable.Handlers[int, error]{})
	sub.Unsubscribe()

	// assert
	assert.Equal(t, 1, teardowns)
}

func Test_Subscribe_HandlerPanicPropagates(t *testing.T) {
	// arrange
	obs, err := observable.From[int, error]([]int{1, 2, 3})
	require.NoError(t, err)

	// act + assert
	assert.PanicsWithValue(t, "handler fault", func() {
		obs.Subscribe(observable.Handlers[int, error]{
			Next: func(int) { panic("handler fault") },
		})
	})
}

func Test_Subscribe_EverySubscriptionGetsOwnID(t *testing.T) {
	// arrange
	obs, err := observable.Of[int, error](1)
	require.NoError(t, err)

	// act
	first := obs.Subscribe(observable.Handlers[int, error]{})
	second := obs.Subscribe(observable.Handlers[int, error]{})

	// assert
	assert.NotEmpty(t, first.ID())
	assert.NotEmpty(t, second.ID())
	assert.NotEqual(t, first.ID(), second.ID())
}

func Test_Observer_Notify_DispatchesMaterializedNotifications(t *testing.T) {
	// arrange
	boom := errors.New("boom")
	recorder := observabletest.NewRecorder[string, error]()
	obs, err := observable.New(func(o *observable.Observer[string, error]) observable.Teardown {
		o.Notify(observable.NextNotification[string, error]("a"))
		o.Notify(observable.ErrorNotification[string](boom))
		o.Notify(observable.CompleteNotification[string, error]())
		return nil
	})
	require.NoError(t, err)

	// act
	obs.Subscribe(recorder.Handlers())

	// assert
	assert.Equal(t, []string{"a"}, recorder.Values())
	assert.Equal(t, []error{boom}, recorder.Errors())
	assert.Equal(t, 0, recorder.Completions())
}

func Test_Kind_String(t *testing.T) {
	assert.Equal(t, "next", observable.KindNext.String())
	assert.Equal(t, "error", observable.KindError.String())
	assert.Equal(t, "complete", observable.KindComplete.String())
	assert.Equal(t, "unknown", observable.Kind(0).String())
	assert.False(t, observable.KindNext.IsTerminal())
	assert.True(t, observable.KindError.IsTerminal())
	assert.True(t, observable.KindComplete.IsTerminal())
}
