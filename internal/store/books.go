package store

import (
	"fmt"

	"github.com/runnerr0/daybook/internal/codec"
	"github.com/runnerr0/daybook/internal/model"
)

// BookPatch holds the fields a book update may change.
type BookPatch struct {
	Title       *string
	Author      *string
	Status      *string
	Genre       *string
	CoverURL    *string
	Notes       *[]string
	Quotes      *[]string
	Reflections *[]string
}

// GoalProgress is the read-time view of one reading goal: the target
// plus the completed count recomputed from books whose completion date
// falls inside the goal window.
type GoalProgress struct {
	Goal      model.BookGoal
	Completed int
	Achieved  bool
}

// Books returns a snapshot of the books collection.
func (s *Store) Books() model.BookData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(codec.KeyBooks).(model.BookData)
}

// AddBook appends a book. A book added directly in completed status
// gets today's date stamped as its completion date.
func (s *Store) AddBook(b model.Book) error {
	if b.ID == "" {
		return fmt.Errorf("add book: id is required")
	}
	if b.Title == "" {
		return fmt.Errorf("add book: title is required")
	}
	if !model.ValidBookStatus(b.Status) {
		return fmt.Errorf("add book: invalid status %q", b.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.state.books.Books {
		if existing.ID == b.ID {
			return fmt.Errorf("add book: id %s already exists", b.ID)
		}
	}

	now := s.now()
	if b.Status == model.BookCompleted && b.CompletedDate == "" {
		b.CompletedDate = model.DateKey(now)
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	s.state.books.Books = append(
		append([]model.Book(nil), s.state.books.Books...), b)
	s.persist(codec.KeyBooks)
	return nil
}

// UpdateBook shallow-merges patch into the book with the given id.
// Moving into completed status stamps today as the completion date;
// moving out of it clears the date, which also removes the book from
// any goal's progress.
func (s *Store) UpdateBook(id string, patch BookPatch) error {
	if patch.Status != nil && !model.ValidBookStatus(*patch.Status) {
		return fmt.Errorf("update book: invalid status %q", *patch.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	books := append([]model.Book(nil), s.state.books.Books...)
	idx := -1
	for i, b := range books {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.logger.Printf("WARNING: update book %s: not found, ignoring", id)
		return nil
	}

	b := books[idx]
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Author != nil {
		b.Author = *patch.Author
	}
	if patch.Status != nil && *patch.Status != b.Status {
		if *patch.Status == model.BookCompleted {
			b.CompletedDate = model.DateKey(s.now())
		} else if b.Status == model.BookCompleted {
			b.CompletedDate = ""
		}
		b.Status = *patch.Status
	}
	if patch.Genre != nil {
		b.Genre = *patch.Genre
	}
	if patch.CoverURL != nil {
		b.CoverURL = *patch.CoverURL
	}
	if patch.Notes != nil {
		b.Notes = append([]string(nil), (*patch.Notes)...)
	}
	if patch.Quotes != nil {
		b.Quotes = append([]string(nil), (*patch.Quotes)...)
	}
	if patch.Reflections != nil {
		b.Reflections = append([]string(nil), (*patch.Reflections)...)
	}
	b.UpdatedAt = s.now()
	books[idx] = b

	s.state.books.Books = books
	s.persist(codec.KeyBooks)
	return nil
}

// AppendBookNote adds one note, quote, or reflection to a book. Kind is
// one of "note", "quote", "reflection".
func (s *Store) AppendBookNote(id, kind, text string) error {
	if text == "" {
		return fmt.Errorf("append book note: text is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	books := append([]model.Book(nil), s.state.books.Books...)
	idx := -1
	for i, b := range books {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("append book note: book %s not found", id)
	}

	b := books[idx]
	switch kind {
	case "note":
		b.Notes = append(append([]string(nil), b.Notes...), text)
	case "quote":
		b.Quotes = append(append([]string(nil), b.Quotes...), text)
	case "reflection":
		b.Reflections = append(append([]string(nil), b.Reflections...), text)
	default:
		return fmt.Errorf("append book note: unknown kind %q", kind)
	}
	b.UpdatedAt = s.now()
	books[idx] = b

	s.state.books.Books = books
	s.persist(codec.KeyBooks)
	return nil
}

// DeleteBook removes a book by id. Unknown ids are no-ops.
func (s *Store) DeleteBook(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books := make([]model.Book, 0, len(s.state.books.Books))
	found := false
	for _, b := range s.state.books.Books {
		if b.ID == id {
			found = true
			continue
		}
		books = append(books, b)
	}
	if !found {
		s.logger.Printf("WARNING: delete book %s: not found, ignoring", id)
		return
	}

	s.state.books.Books = books
	s.persist(codec.KeyBooks)
}

// SetBookGoal creates or replaces a reading goal by id.
func (s *Store) SetBookGoal(g model.BookGoal) error {
	if g.ID == "" {
		return fmt.Errorf("set book goal: id is required")
	}
	if g.TargetCount < 1 {
		return fmt.Errorf("set book goal: target must be at least 1")
	}
	if _, err := model.ParseDateKey(g.StartDate); err != nil {
		return fmt.Errorf("set book goal: %w", err)
	}
	if _, err := model.ParseDateKey(g.EndDate); err != nil {
		return fmt.Errorf("set book goal: %w", err)
	}
	if g.EndDate < g.StartDate {
		return fmt.Errorf("set book goal: end date precedes start date")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.now()
	}

	goals := append([]model.BookGoal(nil), s.state.books.Goals...)
	replaced := false
	for i := range goals {
		if goals[i].ID == g.ID {
			goals[i] = g
			replaced = true
			break
		}
	}
	if !replaced {
		goals = append(goals, g)
	}

	s.state.books.Goals = goals
	s.persist(codec.KeyBooks)
	return nil
}

// DeleteBookGoal removes a goal by id. Unknown ids are no-ops.
func (s *Store) DeleteBookGoal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals := make([]model.BookGoal, 0, len(s.state.books.Goals))
	found := false
	for _, g := range s.state.books.Goals {
		if g.ID == id {
			found = true
			continue
		}
		goals = append(goals, g)
	}
	if !found {
		s.logger.Printf("WARNING: delete book goal %s: not found, ignoring", id)
		return
	}

	s.state.books.Goals = goals
	s.persist(codec.KeyBooks)
}

// GoalProgresses computes every goal's standing from the current books.
// Date keys sort lexicographically, so the window check is plain string
// comparison.
func (s *Store) GoalProgresses() []GoalProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]GoalProgress, 0, len(s.state.books.Goals))
	for _, g := range s.state.books.Goals {
		completed := 0
		for _, b := range s.state.books.Books {
			if b.Status != model.BookCompleted || b.CompletedDate == "" {
				continue
			}
			if b.CompletedDate >= g.StartDate && b.CompletedDate <= g.EndDate {
				completed++
			}
		}
		out = append(out, GoalProgress{
			Goal:      g,
			Completed: completed,
			Achieved:  completed >= g.TargetCount,
		})
	}
	return out
}
