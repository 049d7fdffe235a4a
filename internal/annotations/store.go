package annotations

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/LumenResearchLab/margin/internal/papers"
	"github.com/LumenResearchLab/margin/internal/reviewers"
	"go.uber.org/zap"
)

var (
	errMissingLibrary    = errors.New("paper library is required")
	errMissingDirectory  = errors.New("reviewer directory is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

// ServiceError carries a stable machine-readable code alongside the cause.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

const (
	opStoreNew          = "annotations.store.new"
	opAddHighlight      = "annotations.add_highlight"
	opEditHighlightNote = "annotations.edit_highlight_note"
	opDeleteHighlight   = "annotations.delete_highlight"
	opAddComment        = "annotations.add_comment"
	opAddReply          = "annotations.add_reply"
	opLike              = "annotations.like"
	opUnlike            = "annotations.unlike"
	opPin               = "annotations.pin"
	opListHighlights    = "annotations.list_highlights"
	opListComments      = "annotations.list_comments"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

// IDProvider issues identifiers for newly created annotations.
type IDProvider interface {
	NewID() (string, error)
}

// StoreConfig describes the dependencies of the annotation store.
type StoreConfig struct {
	Library    *papers.Library
	Directory  *reviewers.Directory
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Store is the authoritative collection of highlights and comments. It is
// the only mutable resource in the annotation core; every mutation validates
// its input fully before touching state, so failures never leave partial
// effects behind.
type Store struct {
	library    *papers.Library
	directory  *reviewers.Directory
	clock      func() time.Time
	idProvider IDProvider
	logger     *zap.Logger

	mu             sync.RWMutex
	highlights     map[string]*Highlight
	highlightOrder map[papers.PaperID][]string
	comments       map[string]*Comment
	commentOrder   map[papers.PaperID][]string
	replyParent    map[string]string
	likers         map[string]map[AuthorID]struct{}
}

// NewStore constructs the annotation store.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Library == nil {
		return nil, newServiceError(opStoreNew, "missing_library", errMissingLibrary)
	}
	if cfg.Directory == nil {
		return nil, newServiceError(opStoreNew, "missing_directory", errMissingDirectory)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opStoreNew, "missing_id_provider", errMissingIDProvider)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Store{
		library:        cfg.Library,
		directory:      cfg.Directory,
		clock:          clock,
		idProvider:     cfg.IDProvider,
		logger:         logger,
		highlights:     make(map[string]*Highlight),
		highlightOrder: make(map[papers.PaperID][]string),
		comments:       make(map[string]*Comment),
		commentOrder:   make(map[papers.PaperID][]string),
		replyParent:    make(map[string]string),
		likers:         make(map[string]map[AuthorID]struct{}),
	}, nil
}

// AddHighlight records a colored highlight over the given anchor. The anchor
// is expected to come from the selection resolver; the highlight is stamped
// with the paper's current version so later reads can detect drift.
func (s *Store) AddHighlight(paperID papers.PaperID, anchor papers.Anchor, color Color, authorID AuthorID, note string) (Highlight, error) {
	if err := validateAnchor(anchor); err != nil {
		return Highlight{}, newServiceError(opAddHighlight, "invalid_anchor", err)
	}
	if _, err := ParseColor(string(color)); err != nil {
		return Highlight{}, newServiceError(opAddHighlight, "invalid_color", err)
	}
	if authorID == "" {
		return Highlight{}, newServiceError(opAddHighlight, "invalid_author", ErrInvalidAuthorID)
	}

	version, err := s.library.CurrentVersion(paperID)
	if err != nil {
		s.logError(opAddHighlight, "paper_lookup_failed", err, zap.String("paper_id", paperID.String()))
		return Highlight{}, newServiceError(opAddHighlight, "paper_lookup_failed", err)
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opAddHighlight, "id_generation_failed", err)
		return Highlight{}, newServiceError(opAddHighlight, "id_generation_failed", err)
	}

	highlight := Highlight{
		ID:           id,
		PaperID:      paperID,
		VersionLabel: version.Label,
		Anchor:       anchor,
		Color:        color,
		AuthorID:     authorID,
		Note:         strings.TrimSpace(note),
		CreatedAt:    s.clock().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := highlight
	s.highlights[id] = &stored
	s.highlightOrder[paperID] = append(s.highlightOrder[paperID], id)
	return highlight, nil
}

// EditHighlightNote replaces the optional note on a highlight. Only the
// highlight's creator may edit it; nothing else on a highlight is mutable.
func (s *Store) EditHighlightNote(highlightID string, authorID AuthorID, note string) (Highlight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	highlight, ok := s.highlights[highlightID]
	if !ok {
		return Highlight{}, newServiceError(opEditHighlightNote, "not_found", fmt.Errorf("%w: %s", ErrHighlightNotFound, highlightID))
	}
	if highlight.AuthorID != authorID {
		return Highlight{}, newServiceError(opEditHighlightNote, "not_owner", fmt.Errorf("%w: %s", ErrNotOwner, highlightID))
	}
	highlight.Note = strings.TrimSpace(note)
	return *highlight, nil
}

// DeleteHighlight removes a highlight. Only the creator may delete it.
func (s *Store) DeleteHighlight(highlightID string, authorID AuthorID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	highlight, ok := s.highlights[highlightID]
	if !ok {
		return newServiceError(opDeleteHighlight, "not_found", fmt.Errorf("%w: %s", ErrHighlightNotFound, highlightID))
	}
	if highlight.AuthorID != authorID {
		return newServiceError(opDeleteHighlight, "not_owner", fmt.Errorf("%w: %s", ErrNotOwner, highlightID))
	}

	delete(s.highlights, highlightID)
	order := s.highlightOrder[highlight.PaperID]
	for i, id := range order {
		if id == highlightID {
			s.highlightOrder[highlight.PaperID] = append(order[:i], order[i+1:]...)
			break
		}
	}
	return nil
}

// AddComment records reviewer feedback on a paper. A nil anchor attaches the
// comment to the paper as a whole rather than a selected span.
func (s *Store) AddComment(paperID papers.PaperID, anchor *papers.Anchor, authorID AuthorID, text string) (Comment, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return Comment{}, newServiceError(opAddComment, "empty_text", ErrEmptyText)
	}
	if authorID == "" {
		return Comment{}, newServiceError(opAddComment, "invalid_author", ErrInvalidAuthorID)
	}
	if anchor != nil {
		if err := validateAnchor(*anchor); err != nil {
			return Comment{}, newServiceError(opAddComment, "invalid_anchor", err)
		}
	}

	version, err := s.library.CurrentVersion(paperID)
	if err != nil {
		s.logError(opAddComment, "paper_lookup_failed", err, zap.String("paper_id", paperID.String()))
		return Comment{}, newServiceError(opAddComment, "paper_lookup_failed", err)
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opAddComment, "id_generation_failed", err)
		return Comment{}, newServiceError(opAddComment, "id_generation_failed", err)
	}

	comment := Comment{
		ID:           id,
		PaperID:      paperID,
		VersionLabel: version.Label,
		AuthorID:     authorID,
		Author:       s.directory.Resolve(authorID.String()),
		Text:         body,
		CreatedAt:    s.clock().UTC(),
		Replies:      []Comment{},
	}
	if anchor != nil {
		anchorCopy := *anchor
		comment.Anchor = &anchorCopy
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := copyComment(comment)
	s.comments[id] = &stored
	s.commentOrder[paperID] = append(s.commentOrder[paperID], id)
	return comment, nil
}

// AddReply appends a reply under a top-level comment. Replies inherit the
// parent's paper and version, carry no anchor of their own and cannot be
// replied to in turn.
func (s *Store) AddReply(parentCommentID string, authorID AuthorID, text string) (Comment, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return Comment{}, newServiceError(opAddReply, "empty_text", ErrEmptyText)
	}
	if authorID == "" {
		return Comment{}, newServiceError(opAddReply, "invalid_author", ErrInvalidAuthorID)
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opAddReply, "id_generation_failed", err)
		return Comment{}, newServiceError(opAddReply, "id_generation_failed", err)
	}
	createdAt := s.clock().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, isReply := s.replyParent[parentCommentID]; isReply {
		return Comment{}, newServiceError(opAddReply, "nested_reply", fmt.Errorf("%w: %s", ErrReplyDepth, parentCommentID))
	}
	parent, ok := s.comments[parentCommentID]
	if !ok {
		return Comment{}, newServiceError(opAddReply, "parent_not_found", fmt.Errorf("%w: %s", ErrCommentNotFound, parentCommentID))
	}

	reply := Comment{
		ID:           id,
		PaperID:      parent.PaperID,
		VersionLabel: parent.VersionLabel,
		AuthorID:     authorID,
		Author:       s.directory.Resolve(authorID.String()),
		Text:         body,
		CreatedAt:    createdAt,
		Replies:      []Comment{},
	}
	parent.Replies = append(parent.Replies, copyComment(reply))
	s.replyParent[id] = parentCommentID
	return reply, nil
}

// Like records that a reviewer liked a comment or reply. Liking is
// idempotent per reviewer: repeat calls return the unchanged count.
func (s *Store) Like(commentID string, userID AuthorID) (int, error) {
	if userID == "" {
		return 0, newServiceError(opLike, "invalid_user", ErrInvalidAuthorID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.findCommentLocked(commentID)
	if target == nil {
		return 0, newServiceError(opLike, "not_found", fmt.Errorf("%w: %s", ErrCommentNotFound, commentID))
	}

	set, ok := s.likers[commentID]
	if !ok {
		set = make(map[AuthorID]struct{})
		s.likers[commentID] = set
	}
	if _, liked := set[userID]; liked {
		return target.LikeCount, nil
	}
	set[userID] = struct{}{}
	target.LikeCount++
	return target.LikeCount, nil
}

// Unlike withdraws a reviewer's like. Withdrawing a like that was never
// recorded is a no-op returning the current count.
func (s *Store) Unlike(commentID string, userID AuthorID) (int, error) {
	if userID == "" {
		return 0, newServiceError(opUnlike, "invalid_user", ErrInvalidAuthorID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.findCommentLocked(commentID)
	if target == nil {
		return 0, newServiceError(opUnlike, "not_found", fmt.Errorf("%w: %s", ErrCommentNotFound, commentID))
	}

	set, ok := s.likers[commentID]
	if !ok {
		return target.LikeCount, nil
	}
	if _, liked := set[userID]; !liked {
		return target.LikeCount, nil
	}
	delete(set, userID)
	target.LikeCount--
	return target.LikeCount, nil
}

// Pin marks a comment for importance display.
func (s *Store) Pin(commentID string) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.findCommentLocked(commentID)
	if target == nil {
		return Comment{}, newServiceError(opPin, "not_found", fmt.Errorf("%w: %s", ErrCommentNotFound, commentID))
	}
	target.Pinned = true
	return copyComment(*target), nil
}

// ListHighlights returns a paper's highlights in creation order. When a
// version label is supplied only highlights whose anchor still resolves
// against that version are returned; the rest stay stored but hidden, so an
// annotation can reappear when the reader switches back to the version it
// was made against.
func (s *Store) ListHighlights(paperID papers.PaperID, versionLabel papers.VersionLabel) ([]Highlight, error) {
	var version papers.Version
	filtered := versionLabel != ""
	if filtered {
		var err error
		version, err = s.library.GetVersion(paperID, versionLabel)
		if err != nil {
			s.logError(opListHighlights, "version_lookup_failed", err,
				zap.String("paper_id", paperID.String()),
				zap.String("version", versionLabel.String()))
			return nil, newServiceError(opListHighlights, "version_lookup_failed", err)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	order := s.highlightOrder[paperID]
	result := make([]Highlight, 0, len(order))
	for _, id := range order {
		highlight := s.highlights[id]
		if filtered && !papers.Locate(highlight.Anchor, version).Found {
			continue
		}
		result = append(result, *highlight)
	}
	return result, nil
}

// ListComments returns a paper's top-level comments in the requested order.
// Replies stay nested under their parents and are never listed here.
func (s *Store) ListComments(paperID papers.PaperID, order SortOrder) ([]Comment, error) {
	if _, err := ParseSortOrder(string(order)); err != nil {
		return nil, newServiceError(opListComments, "invalid_sort_order", err)
	}

	s.mu.RLock()
	result := make([]Comment, 0, len(s.commentOrder[paperID]))
	for _, id := range s.commentOrder[paperID] {
		result = append(result, copyComment(*s.comments[id]))
	}
	s.mu.RUnlock()

	switch order {
	case SortByLikesDesc:
		sort.SliceStable(result, func(i, j int) bool {
			if result[i].LikeCount != result[j].LikeCount {
				return result[i].LikeCount > result[j].LikeCount
			}
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		})
	case SortByRecencyDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
	}
	return result, nil
}

// GetComment returns a single comment or reply by id.
func (s *Store) GetComment(commentID string) (Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target := s.findCommentLocked(commentID)
	if target == nil {
		return Comment{}, fmt.Errorf("%w: %s", ErrCommentNotFound, commentID)
	}
	return copyComment(*target), nil
}

// findCommentLocked resolves an id to the stored comment or reply. The
// returned pointer is only valid while the store lock is held.
func (s *Store) findCommentLocked(commentID string) *Comment {
	if comment, ok := s.comments[commentID]; ok {
		return comment
	}
	parentID, ok := s.replyParent[commentID]
	if !ok {
		return nil
	}
	parent, ok := s.comments[parentID]
	if !ok {
		return nil
	}
	for i := range parent.Replies {
		if parent.Replies[i].ID == commentID {
			return &parent.Replies[i]
		}
	}
	return nil
}

func (s *Store) loggerOrDefault() *zap.Logger {
	if s == nil || s.logger == nil {
		return noOpLogger
	}
	return s.logger
}

func (s *Store) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.loggerOrDefault().Error("annotation store error", attrs...)
}
