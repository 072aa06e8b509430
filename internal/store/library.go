package store

import (
	"context"
	"time"

	"github.com/Spok95/school-portal/internal/models"
)

// Срок выдачи книги по умолчанию.
const defaultLoanDays = 14

type BookInput struct {
	Title  string `validate:"required"`
	Author string `validate:"required"`
	ISBN   string `validate:"omitempty,isbn"`
	Copies int    `validate:"min=1"`
}

func (s *Store) AddBook(ctx context.Context, in BookInput) (models.Book, error) {
	if err := check(in); err != nil {
		return models.Book{}, err
	}
	var out models.Book
	_, err := s.apply(ctx, "library.add_book", func(next *Snapshot) error {
		out = models.Book{
			ID:              s.opts.NewID(),
			Title:           in.Title,
			Author:          in.Author,
			ISBN:            in.ISBN,
			TotalCopies:     in.Copies,
			AvailableCopies: in.Copies,
		}
		next.Books = append(next.Books, out)
		return nil
	})
	return out, err
}

// IssueBook выдаёт экземпляр; dueAt по умолчанию через две недели.
func (s *Store) IssueBook(ctx context.Context, bookID, borrowerID string, dueAt time.Time) (models.BookIssue, error) {
	var out models.BookIssue
	_, err := s.apply(ctx, "library.issue", func(next *Snapshot) error {
		bi := -1
		for i := range next.Books {
			if next.Books[i].ID == bookID {
				bi = i
				break
			}
		}
		if bi < 0 {
			return notFound("book", bookID)
		}
		if next.userIdx(borrowerID) < 0 {
			return notFound("user", borrowerID)
		}
		if next.Books[bi].AvailableCopies <= 0 {
			return precondition("no copies of %q available", next.Books[bi].Title)
		}
		now := s.now()
		if dueAt.IsZero() {
			dueAt = models.DateOf(now).AddDate(0, 0, defaultLoanDays)
		}
		next.Books[bi].AvailableCopies--
		out = models.BookIssue{
			ID:         s.opts.NewID(),
			BookID:     bookID,
			BorrowerID: borrowerID,
			IssuedAt:   now,
			DueAt:      dueAt,
			Status:     models.IssueIssued,
		}
		next.BookIssues = append(next.BookIssues, out)
		return nil
	})
	return out, err
}

func (s *Store) ReturnBook(ctx context.Context, issueID string) error {
	_, err := s.apply(ctx, "library.return", func(next *Snapshot) error {
		for i := range next.BookIssues {
			is := &next.BookIssues[i]
			if is.ID != issueID {
				continue
			}
			if is.Status == models.IssueReturned {
				return precondition("issue %s already returned", issueID)
			}
			now := s.now()
			is.Status = models.IssueReturned
			is.ReturnedAt = &now
			for j := range next.Books {
				if next.Books[j].ID == is.BookID && next.Books[j].AvailableCopies < next.Books[j].TotalCopies {
					next.Books[j].AvailableCopies++
				}
			}
			return nil
		}
		return notFound("book issue", issueID)
	})
	return err
}
