package eventstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
)

//nolint:funlen
func Test_FilterBuilder_ValidCombinations(t *testing.T) {
	tests := []struct {
		name     string
		build    func() eventstore.Filter
		validate func(t *testing.T, f eventstore.Filter)
	}{
		{
			name: "matching any event creates an empty filter",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().MatchingAnyEvent()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Empty(t, f.Items())
			},
		},
		{
			name: "event types only",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("LoanReturned", "LoanOpened").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Equal(t, []string{"LoanOpened", "LoanReturned"}, f.Items()[0].EventTypes())
				assert.Empty(t, f.Items()[0].Predicates())
			},
		},
		{
			name: "predicates only, any must match",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyPredicateOf(eventstore.P("BorrowerID", "m-1"), eventstore.P("DonorID", "m-1")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Empty(t, f.Items()[0].EventTypes())
				assert.Equal(t, "BorrowerID", f.Items()[0].Predicates()[0].Key())
				assert.Equal(t, "DonorID", f.Items()[0].Predicates()[1].Key())
				assert.False(t, f.Items()[0].AllPredicatesMustMatch())
			},
		},
		{
			name: "predicates only, all must match",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AllPredicatesOf(eventstore.P("BookID", "b-1"), eventstore.P("RequesterID", "m-2")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items()[0].Predicates(), 2)
				assert.True(t, f.Items()[0].AllPredicatesMustMatch())
			},
		},
		{
			name: "event types and any predicate",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("LoanOpened").
					AndAnyPredicateOf(eventstore.P("BookID", "b-1")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Equal(t, []string{"LoanOpened"}, f.Items()[0].EventTypes())
				assert.Equal(t, "b-1", f.Items()[0].Predicates()[0].Val())
				assert.False(t, f.Items()[0].AllPredicatesMustMatch())
			},
		},
		{
			name: "predicates and event types",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AllPredicatesOf(eventstore.P("LoanID", "l-1")).
					AndAnyEventTypeOf("LoanRenewalRequested", "LoanOpened").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Equal(t, []string{"LoanOpened", "LoanRenewalRequested"}, f.Items()[0].EventTypes())
				assert.True(t, f.Items()[0].AllPredicatesMustMatch())
			},
		},
		{
			name: "several items combined with or",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("LoanOpened").
					AndAnyPredicateOf(eventstore.P("LoanID", "l-1")).
					OrMatching().
					AnyEventTypeOf("BookReserved").
					AndAnyPredicateOf(eventstore.P("BookID", "b-1")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 2)
				assert.Equal(t, []string{"LoanOpened"}, f.Items()[0].EventTypes())
				assert.Equal(t, []string{"BookReserved"}, f.Items()[1].EventTypes())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, tt.build())
		})
	}
}

func Test_FilterBuilder_SanitizesInput(t *testing.T) {
	// arrange
	builder := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("LoanReturned", "", "LoanOpened", "LoanReturned").
		AndAnyPredicateOf(
			eventstore.P("LoanID", "l-2"),
			eventstore.P("", "x"),
			eventstore.P("BookID", ""),
			eventstore.P("LoanID", "l-1"),
			eventstore.P("LoanID", "l-2"),
		)

	// act
	filter := builder.Finalize()

	// assert
	item := filter.Items()[0]
	assert.Equal(t, []string{"LoanOpened", "LoanReturned"}, item.EventTypes())
	assert.Equal(
		t,
		[]eventstore.FilterPredicate{eventstore.P("LoanID", "l-1"), eventstore.P("LoanID", "l-2")},
		item.Predicates(),
		"Should drop partial predicates, sort and deduplicate",
	)
}

func Test_FilterBuilder_BranchesDoNotShareState(t *testing.T) {
	// arrange
	base := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("LoanOpened").
		OrMatching()

	// act
	first := base.AnyEventTypeOf("BookReserved").Finalize()
	second := base.AnyEventTypeOf("ReservationCancelled").Finalize()

	// assert
	assert.Equal(t, []string{"BookReserved"}, first.Items()[1].EventTypes())
	assert.Equal(t, []string{"ReservationCancelled"}, second.Items()[1].EventTypes())
}
