package shell

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents, keeping their order.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	payload := storableEvent.PayloadJSON

	switch storableEvent.EventType {
	case core.BookAddedToCatalogEventType:
		return unmarshalPayload[core.BookAddedToCatalog](payload)
	case core.LoanOpenedEventType:
		return unmarshalPayload[core.LoanOpened](payload)
	case core.LoanReturnedEventType:
		return unmarshalPayload[core.LoanReturned](payload)
	case core.LoanRenewalRequestedEventType:
		return unmarshalPayload[core.LoanRenewalRequested](payload)
	case core.LoanRenewalApprovedEventType:
		return unmarshalPayload[core.LoanRenewalApproved](payload)
	case core.LoanRenewalDeclinedEventType:
		return unmarshalPayload[core.LoanRenewalDeclined](payload)
	case core.ClaimTokenRecordedEventType:
		return unmarshalPayload[core.ClaimTokenRecorded](payload)
	case core.BookReservedEventType:
		return unmarshalPayload[core.BookReserved](payload)
	case core.ReservationNotifiedEventType:
		return unmarshalPayload[core.ReservationNotified](payload)
	case core.ReservationFulfilledEventType:
		return unmarshalPayload[core.ReservationFulfilled](payload)
	case core.ReservationCancelledEventType:
		return unmarshalPayload[core.ReservationCancelled](payload)
	case core.DonationSubmittedEventType:
		return unmarshalPayload[core.DonationSubmitted](payload)
	case core.DonationApprovedEventType:
		return unmarshalPayload[core.DonationApproved](payload)
	case core.DonationDeclinedEventType:
		return unmarshalPayload[core.DonationDeclined](payload)
	}

	return nil, errors.Join(
		ErrMappingToDomainEventFailed,
		fmt.Errorf("%w: %q", ErrMappingToDomainEventUnknownEventType, storableEvent.EventType),
	)
}

func unmarshalPayload[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
