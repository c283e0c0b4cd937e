package core

import (
	"fmt"
	"time"
)

// DonationStatus is the lifecycle state of a donation.
type DonationStatus string

const (
	// DonationStatusPending is the state after submission.
	DonationStatusPending DonationStatus = "Pending"

	// DonationStatusApproved is terminal. The book is in the catalog.
	DonationStatusApproved DonationStatus = "Approved"

	// DonationStatusDeclined is terminal.
	DonationStatusDeclined DonationStatus = "Declined"
)

// Donation is a book offered by a member.
type Donation struct {
	DonationID  DonationIDString
	DonorID     MemberIDString
	Title       string
	Author      string
	Description string
	Status      DonationStatus
	BookID      BookIDString
	SubmittedAt time.Time
	DecidedAt   *time.Time
}

// IsPending tells whether the donation still waits for a decision.
func (d Donation) IsPending() bool {
	return d.Status == DonationStatusPending
}

// ProjectDonation folds the history into the current state of one donation.
// Returns ErrNotFound if the donation was never submitted.
func ProjectDonation(history DomainEvents, donationID DonationIDString) (Donation, error) {
	for _, donation := range ProjectDonations(history) {
		if donation.DonationID == donationID {
			return donation, nil
		}
	}

	return Donation{}, fmt.Errorf("%w: donation %s", ErrNotFound, donationID)
}

// ProjectDonations folds the history into all donations it mentions, in submission order.
func ProjectDonations(history DomainEvents) []Donation {
	donations := make([]Donation, 0)
	index := make(map[DonationIDString]int)

	decide := func(donationID DonationIDString, status DonationStatus, bookID BookIDString, at time.Time) {
		i, ok := index[donationID]
		if !ok {
			return
		}

		decidedAt := at
		donations[i].Status = status
		donations[i].BookID = bookID
		donations[i].DecidedAt = &decidedAt
	}

	for _, event := range history {
		switch e := event.(type) {
		case DonationSubmitted:
			if _, ok := index[e.DonationID]; ok {
				continue
			}

			index[e.DonationID] = len(donations)
			donations = append(donations, Donation{
				DonationID:  e.DonationID,
				DonorID:     e.DonorID,
				Title:       e.Title,
				Author:      e.Author,
				Description: e.Description,
				Status:      DonationStatusPending,
				SubmittedAt: e.OccurredAt,
			})

		case DonationApproved:
			decide(e.DonationID, DonationStatusApproved, e.BookID, e.OccurredAt)

		case DonationDeclined:
			decide(e.DonationID, DonationStatusDeclined, "", e.OccurredAt)
		}
	}

	return donations
}
