package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/LumenResearchLab/margin/internal/annotations"
	"github.com/LumenResearchLab/margin/internal/papers"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errMissingLibrary    = errors.New("paper library dependency required")
	errMissingStore      = errors.New("annotation store dependency required")
	errMissingViews      = errors.New("annotation views dependency required")
	errMissingDispatcher = errors.New("event dispatcher dependency required")
)

// Dependencies wires the HTTP surface to the domain services.
type Dependencies struct {
	Library        *papers.Library
	Store          *annotations.Store
	Views          *annotations.Views
	Dispatcher     *EventDispatcher
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewHTTPHandler builds the Gin router for the annotation API.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Library == nil {
		return nil, errMissingLibrary
	}
	if deps.Store == nil {
		return nil, errMissingStore
	}
	if deps.Views == nil {
		return nil, errMissingViews
	}
	if deps.Dispatcher == nil {
		return nil, errMissingDispatcher
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		library:    deps.Library,
		store:      deps.Store,
		views:      deps.Views,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}

	router.GET("/healthz", handler.handleHealthz)

	router.GET("/papers", handler.handleListPapers)
	router.GET("/papers/:paperID", handler.handleGetPaper)
	router.GET("/papers/:paperID/versions", handler.handleListVersions)
	router.GET("/papers/:paperID/versions/:label", handler.handleGetVersion)
	router.POST("/papers/:paperID/versions", handler.handleAppendVersion)
	router.GET("/papers/:paperID/comments", handler.handleListComments)
	router.GET("/papers/:paperID/comments/count", handler.handleCommentCount)
	router.POST("/papers/:paperID/comments", handler.handleCreateComment)
	router.GET("/papers/:paperID/highlights", handler.handleListHighlights)
	router.POST("/papers/:paperID/highlights", handler.handleCreateHighlight)
	router.GET("/papers/:paperID/events", handler.handleEvents)

	router.POST("/comments/:commentID/replies", handler.handleCreateReply)
	router.PUT("/comments/:commentID/likes", handler.handleLike)
	router.DELETE("/comments/:commentID/likes", handler.handleUnlike)
	router.POST("/comments/:commentID/pin", handler.handlePin)

	router.PATCH("/highlights/:highlightID", handler.handleEditHighlightNote)
	router.DELETE("/highlights/:highlightID", handler.handleDeleteHighlight)

	return router, nil
}

type httpHandler struct {
	library    *papers.Library
	store      *annotations.Store
	views      *annotations.Views
	dispatcher *EventDispatcher
	logger     *zap.Logger
}

type anchorPayload struct {
	SectionID string `json:"section_id"`
	Quote     string `json:"quote"`
}

type authorPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Initials    string `json:"initials"`
	Affiliation string `json:"affiliation,omitempty"`
	Verified    bool   `json:"verified"`
	Reputation  int    `json:"reputation"`
}

type highlightPayload struct {
	ID        string         `json:"id"`
	PaperID   string         `json:"paper_id"`
	Version   string         `json:"version"`
	Anchor    anchorPayload  `json:"anchor"`
	Color     string         `json:"color"`
	AuthorID  string         `json:"author_id"`
	Note      string         `json:"note,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Location  *locationBlock `json:"location,omitempty"`
}

type locationBlock struct {
	Found  bool `json:"found"`
	Offset int  `json:"offset"`
}

type commentPayload struct {
	ID        string           `json:"id"`
	PaperID   string           `json:"paper_id"`
	Version   string           `json:"version"`
	Anchor    *anchorPayload   `json:"anchor,omitempty"`
	AuthorID  string           `json:"author_id"`
	Author    authorPayload    `json:"author"`
	Text      string           `json:"text"`
	CreatedAt time.Time        `json:"created_at"`
	LikeCount int              `json:"like_count"`
	Pinned    bool             `json:"pinned"`
	Replies   []commentPayload `json:"replies"`
}

type paperSummaryPayload struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Field          string   `json:"field,omitempty"`
	Journal        string   `json:"journal,omitempty"`
	PublishDate    string   `json:"publish_date,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	CurrentVersion string   `json:"current_version"`
	VersionCount   int      `json:"version_count"`
}

type paperDetailPayload struct {
	paperSummaryPayload
	Authors  []paperAuthorPayload `json:"authors,omitempty"`
	Abstract string               `json:"abstract,omitempty"`
	DOI      string               `json:"doi,omitempty"`
}

type paperAuthorPayload struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation,omitempty"`
	Email       string `json:"email,omitempty"`
}

type versionSummaryPayload struct {
	Label      string    `json:"label"`
	Date       time.Time `json:"date"`
	ChangeNote string    `json:"change_note,omitempty"`
}

type sectionPayload struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type versionDetailPayload struct {
	Label      string           `json:"label"`
	Date       time.Time        `json:"date"`
	ChangeNote string           `json:"change_note,omitempty"`
	Sections   []sectionPayload `json:"sections"`
}

func (h *httpHandler) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *httpHandler) handleListPapers(c *gin.Context) {
	library := h.library.List()
	response := make([]paperSummaryPayload, 0, len(library))
	for _, paper := range library {
		response = append(response, summarizePaper(paper))
	}
	c.JSON(http.StatusOK, gin.H{"papers": response})
}

func (h *httpHandler) handleGetPaper(c *gin.Context) {
	paperID, ok := h.paperIDFromPath(c)
	if !ok {
		return
	}
	paper, err := h.library.Get(paperID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	detail := paperDetailPayload{
		paperSummaryPayload: summarizePaper(paper),
		Abstract:            paper.Abstract,
		DOI:                 paper.DOI,
	}
	for _, author := range paper.Authors {
		detail.Authors = append(detail.Authors, paperAuthorPayload{
			Name:        author.Name,
			Affiliation: author.Affiliation,
			Email:       author.Email,
		})
	}
	c.JSON(http.StatusOK, detail)
}

func (h *httpHandler) handleListVersions(c *gin.Context) {
	paperID, ok := h.paperIDFromPath(c)
	if !ok {
		return
	}
	summaries, err := h.library.ListVersions(paperID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response := make([]versionSummaryPayload, 0, len(summaries))
	for _, summary := range summaries {
		response = append(response, versionSummaryPayload{
			Label:      summary.Label.String(),
			Date:       summary.CreatedAt,
			ChangeNote: summary.ChangeNote,
		})
	}
	c.JSON(http.StatusOK, gin.H{"versions": response})
}

func (h *httpHandler) handleGetVersion(c *gin.Context) {
	paperID, ok := h.paperIDFromPath(c)
	if !ok {
		return
	}
	label, err := papers.NewVersionLabel(c.Param("label"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_version_label"})
		return
	}
	version, err := h.library.GetVersion(paperID, label)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderVersion(version))
}

type appendVersionRequest struct {
	Label      string           `json:"label"`
	ChangeNote string           `json:"change_note"`
	Sections   []sectionPayload `json:"sections"`
}

func (h *httpHandler) handleAppendVersion(c *gin.Context) {
	paperID, ok := h.paperIDFromPath(c)
	if !ok {
		return
	}
	var request appendVersionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	label, err := papers.NewVersionLabel(request.Label)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_version_label"})
		return
	}

	sections := make([]papers.Section, 0, len(request.Sections))
	for _, sectionEntry := range request.Sections {
		sectionID, err := papers.NewSectionID(sectionEntry.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_section_id"})
			return
		}
		kind, err := papers.ParseSectionKind(sectionEntry.Kind)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_section_kind"})
			return
		}
		sections = append(sections, papers.Section{ID: sectionID, Kind: kind, Text: sectionEntry.Text})
	}

	version := papers.Version{
		Label:      label,
		CreatedAt:  time.Now().UTC(),
		ChangeNote: request.ChangeNote,
		Sections:   sections,
	}
	if err := h.library.AppendVersion(paperID, version); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, renderVersion(version))
}

func (h *httpHandler) handleListComments(c *gin.Context) {
	paperID, ok := h.paperIDFromPath(c)
	if !ok {
		return
	}
	order := annotations.SortByLikesDesc
	if raw := c.Query("sort"); raw != "" {
		parsed, err := annotations.ParseSortOrder(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_sort_order"})
			return
		}
		order = parsed
	}
	comments, err := h.views.TopLevelComments(paperID, order)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response := make([]commentPayload, 0, len(comments))
	for _, comment := range comments {
		response = append(response, renderComment(comment))
	}
	c.JSON(http.StatusOK, gin.H{"comments": response})
}

func (h *httpHandler) handleCommentCount(c *gin.Context) {
	paperID, ok := h.paperIDFromPath(c)
	if !ok {
		return
	}
	includeReplies := c.Query("include_replies") == "true"
	count, err := h.views.CommentCount(paperID, includeReplies)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

type createCommentRequest struct {
	AuthorID     string `json:"author_id"`
	Text         string `json:"text"`
	SectionID    string `json:"section_id"`
	SelectedText string `json:"selected_text"`
}

func (h *httpHandler) handleCreateComment(c *gin.Context) {
	paperID, ok := h.paperIDFromPath(c)
	if !ok {
		return
	}
	var request createCommentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	authorID, err := annotations.NewAuthorID(request.AuthorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_author_id"})
		return
	}

	var anchor *papers.Anchor
	if request.SectionID != "" {
		resolved, ok := h.resolveSelection(c, paperID, request.SectionID, request.SelectedText)
		if !ok {
			return
		}
		anchor = &resolved
	}

	comment, err := h.store.AddComment(paperID, anchor, authorID, request.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.publish(paperID.String(), EventCommentCreated, comment.ID)
	c.JSON(http.StatusCreated, renderComment(comment))
}

type createReplyRequest struct {
	AuthorID string `json:"author_id"`
	Text     string `json:"text"`
}

func (h *httpHandler) handleCreateReply(c *gin.Context) {
	parentID := c.Param("commentID")
	var request createReplyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	authorID, err := annotations.NewAuthorID(request.AuthorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_author_id"})
		return
	}
	reply, err := h.store.AddReply(parentID, authorID, request.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.publish(reply.PaperID.String(), EventReplyCreated, reply.ID)
	c.JSON(http.StatusCreated, renderComment(reply))
}

type likeRequest struct {
	UserID string `json:"user_id"`
}

func (h *httpHandler) handleLike(c *gin.Context) {
	h.applyLike(c, true)
}

func (h *httpHandler) handleUnlike(c *gin.Context) {
	h.applyLike(c, false)
}

func (h *httpHandler) applyLike(c *gin.Context, liked bool) {
	commentID := c.Param("commentID")
	var request likeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	userID, err := annotations.NewAuthorID(request.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_user_id"})
		return
	}

	var count int
	if liked {
		count, err = h.store.Like(commentID, userID)
	} else {
		count, err = h.store.Unlike(commentID, userID)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	comment, lookupErr := h.store.GetComment(commentID)
	if lookupErr == nil {
		eventType := EventCommentLiked
		if !liked {
			eventType = EventCommentUnliked
		}
		h.publish(comment.PaperID.String(), eventType, commentID)
	}
	c.JSON(http.StatusOK, gin.H{"like_count": count})
}

func (h *httpHandler) handlePin(c *gin.Context) {
	commentID := c.Param("commentID")
	comment, err := h.store.Pin(commentID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.publish(comment.PaperID.String(), EventCommentPinned, commentID)
	c.JSON(http.StatusOK, renderComment(comment))
}

func (h *httpHandler) handleListHighlights(c *gin.Context) {
	paperID, ok := h.paperIDFromPath(c)
	if !ok {
		return
	}

	var versionLabel papers.VersionLabel
	if raw := c.Query("version"); raw != "" {
		parsed, err := papers.NewVersionLabel(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_version_label"})
			return
		}
		versionLabel = parsed
	}

	var highlights []annotations.Highlight
	var err error
	if raw := c.Query("color"); raw != "" {
		color, parseErr := annotations.ParseColor(raw)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_color"})
			return
		}
		highlights, err = h.views.HighlightsForColor(paperID, color)
	} else {
		highlights, err = h.store.ListHighlights(paperID, versionLabel)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]highlightPayload, 0, len(highlights))
	for _, highlight := range highlights {
		payload := renderHighlight(highlight)
		if versionLabel != "" {
			if version, lookupErr := h.library.GetVersion(paperID, versionLabel); lookupErr == nil {
				location := papers.Locate(highlight.Anchor, version)
				payload.Location = &locationBlock{Found: location.Found, Offset: location.Offset}
			}
		}
		response = append(response, payload)
	}
	c.JSON(http.StatusOK, gin.H{"highlights": response})
}

type createHighlightRequest struct {
	AuthorID     string `json:"author_id"`
	SectionID    string `json:"section_id"`
	SelectedText string `json:"selected_text"`
	Color        string `json:"color"`
	Note         string `json:"note"`
}

func (h *httpHandler) handleCreateHighlight(c *gin.Context) {
	paperID, ok := h.paperIDFromPath(c)
	if !ok {
		return
	}
	var request createHighlightRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	authorID, err := annotations.NewAuthorID(request.AuthorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_author_id"})
		return
	}
	color, err := annotations.ParseColor(request.Color)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_color"})
		return
	}
	anchor, ok := h.resolveSelection(c, paperID, request.SectionID, request.SelectedText)
	if !ok {
		return
	}

	highlight, err := h.store.AddHighlight(paperID, anchor, color, authorID, request.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.publish(paperID.String(), EventHighlightCreated, highlight.ID)
	c.JSON(http.StatusCreated, renderHighlight(highlight))
}

type editHighlightRequest struct {
	AuthorID string `json:"author_id"`
	Note     string `json:"note"`
}

func (h *httpHandler) handleEditHighlightNote(c *gin.Context) {
	highlightID := c.Param("highlightID")
	var request editHighlightRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	authorID, err := annotations.NewAuthorID(request.AuthorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_author_id"})
		return
	}
	highlight, err := h.store.EditHighlightNote(highlightID, authorID, request.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.publish(highlight.PaperID.String(), EventHighlightUpdated, highlightID)
	c.JSON(http.StatusOK, renderHighlight(highlight))
}

type deleteHighlightRequest struct {
	AuthorID string `json:"author_id"`
}

func (h *httpHandler) handleDeleteHighlight(c *gin.Context) {
	highlightID := c.Param("highlightID")
	authorValue := c.Query("author_id")
	if authorValue == "" {
		var request deleteHighlightRequest
		if err := c.ShouldBindJSON(&request); err == nil {
			authorValue = request.AuthorID
		}
	}
	authorID, err := annotations.NewAuthorID(authorValue)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_author_id"})
		return
	}
	if err := h.store.DeleteHighlight(highlightID, authorID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *httpHandler) handleEvents(c *gin.Context) {
	paperID, ok := h.paperIDFromPath(c)
	if !ok {
		return
	}
	if _, err := h.library.Get(paperID); err != nil {
		h.respondError(c, err)
		return
	}

	stream, cleanup := h.dispatcher.Subscribe(c.Request.Context(), paperID.String())
	defer cleanup()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, open := <-stream:
			if !open {
				return false
			}
			c.SSEvent(event.EventType, gin.H{
				"paper_id":      event.PaperID,
				"annotation_id": event.AnnotationID,
				"timestamp":     event.Timestamp,
			})
			return true
		case <-heartbeat.C:
			c.SSEvent(eventHeartbeat, gin.H{"paper_id": paperID.String()})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// resolveSelection turns a raw selection into an anchor against the paper's
// current version, writing the HTTP error response itself on failure.
func (h *httpHandler) resolveSelection(c *gin.Context, paperID papers.PaperID, rawSectionID, selectedText string) (papers.Anchor, bool) {
	sectionID, err := papers.NewSectionID(rawSectionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_section_id"})
		return papers.Anchor{}, false
	}
	version, err := h.library.CurrentVersion(paperID)
	if err != nil {
		h.respondError(c, err)
		return papers.Anchor{}, false
	}
	section, ok := version.Section(sectionID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_section"})
		return papers.Anchor{}, false
	}
	anchor, err := papers.ResolveSelection(section, selectedText)
	if err != nil {
		h.respondError(c, err)
		return papers.Anchor{}, false
	}
	return anchor, true
}

func (h *httpHandler) paperIDFromPath(c *gin.Context) (papers.PaperID, bool) {
	paperID, err := papers.NewPaperID(c.Param("paperID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_paper_id"})
		return "", false
	}
	return paperID, true
}

func (h *httpHandler) publish(paperID, eventType, annotationID string) {
	h.dispatcher.Publish(AnnotationEvent{
		PaperID:      paperID,
		EventType:    eventType,
		AnnotationID: annotationID,
		Timestamp:    time.Now().UTC(),
	})
}

func (h *httpHandler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	reason := "internal_error"

	switch {
	case errors.Is(err, papers.ErrPaperNotFound):
		status, reason = http.StatusNotFound, "paper_not_found"
	case errors.Is(err, papers.ErrVersionNotFound):
		status, reason = http.StatusNotFound, "version_not_found"
	case errors.Is(err, annotations.ErrCommentNotFound):
		status, reason = http.StatusNotFound, "comment_not_found"
	case errors.Is(err, annotations.ErrHighlightNotFound):
		status, reason = http.StatusNotFound, "highlight_not_found"
	case errors.Is(err, annotations.ErrNotOwner):
		status, reason = http.StatusForbidden, "not_owner"
	case errors.Is(err, annotations.ErrEmptyText):
		status, reason = http.StatusBadRequest, "empty_text"
	case errors.Is(err, annotations.ErrReplyDepth):
		status, reason = http.StatusBadRequest, "nested_reply"
	case errors.Is(err, annotations.ErrInvalidColor):
		status, reason = http.StatusBadRequest, "invalid_color"
	case errors.Is(err, annotations.ErrInvalidAuthorID):
		status, reason = http.StatusBadRequest, "invalid_author_id"
	case errors.Is(err, annotations.ErrInvalidAnchor):
		status, reason = http.StatusBadRequest, "invalid_anchor"
	case errors.Is(err, annotations.ErrInvalidSortOrder):
		status, reason = http.StatusBadRequest, "invalid_sort_order"
	case errors.Is(err, papers.ErrEmptySelection):
		status, reason = http.StatusBadRequest, "empty_selection"
	case errors.Is(err, papers.ErrInvalidRange):
		status, reason = http.StatusBadRequest, "selection_not_found"
	case errors.Is(err, papers.ErrDuplicateVersionLabel):
		status, reason = http.StatusBadRequest, "duplicate_version_label"
	case errors.Is(err, papers.ErrDuplicateSectionID):
		status, reason = http.StatusBadRequest, "duplicate_section_id"
	case errors.Is(err, papers.ErrInvalidVersionLabel):
		status, reason = http.StatusBadRequest, "invalid_version_label"
	case errors.Is(err, papers.ErrInvalidSectionID):
		status, reason = http.StatusBadRequest, "invalid_section_id"
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("annotation request failed", zap.Error(err))
	}

	body := gin.H{"error": reason}
	var serviceErr *annotations.ServiceError
	if errors.As(err, &serviceErr) {
		body["code"] = serviceErr.Code()
	}
	c.JSON(status, body)
}

func summarizePaper(paper papers.Paper) paperSummaryPayload {
	return paperSummaryPayload{
		ID:             paper.ID.String(),
		Title:          paper.Title,
		Field:          paper.Field,
		Journal:        paper.Journal,
		PublishDate:    paper.PublishDate,
		Keywords:       paper.Keywords,
		CurrentVersion: paper.CurrentVersion.String(),
		VersionCount:   len(paper.Versions),
	}
}

func renderVersion(version papers.Version) versionDetailPayload {
	sections := make([]sectionPayload, 0, len(version.Sections))
	for _, section := range version.Sections {
		sections = append(sections, sectionPayload{
			ID:   section.ID.String(),
			Kind: string(section.Kind),
			Text: section.Text,
		})
	}
	return versionDetailPayload{
		Label:      version.Label.String(),
		Date:       version.CreatedAt,
		ChangeNote: version.ChangeNote,
		Sections:   sections,
	}
}

func renderHighlight(highlight annotations.Highlight) highlightPayload {
	return highlightPayload{
		ID:      highlight.ID,
		PaperID: highlight.PaperID.String(),
		Version: highlight.VersionLabel.String(),
		Anchor: anchorPayload{
			SectionID: highlight.Anchor.SectionID.String(),
			Quote:     highlight.Anchor.Quote,
		},
		Color:     string(highlight.Color),
		AuthorID:  highlight.AuthorID.String(),
		Note:      highlight.Note,
		CreatedAt: highlight.CreatedAt,
	}
}

func renderComment(comment annotations.Comment) commentPayload {
	payload := commentPayload{
		ID:       comment.ID,
		PaperID:  comment.PaperID.String(),
		Version:  comment.VersionLabel.String(),
		AuthorID: comment.AuthorID.String(),
		Author: authorPayload{
			ID:          comment.Author.ID,
			Name:        comment.Author.Name,
			Initials:    comment.Author.Initials,
			Affiliation: comment.Author.Affiliation,
			Verified:    comment.Author.Verified,
			Reputation:  comment.Author.Reputation,
		},
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
		LikeCount: comment.LikeCount,
		Pinned:    comment.Pinned,
		Replies:   make([]commentPayload, 0, len(comment.Replies)),
	}
	if comment.Anchor != nil {
		payload.Anchor = &anchorPayload{
			SectionID: comment.Anchor.SectionID.String(),
			Quote:     comment.Anchor.Quote,
		}
	}
	for _, reply := range comment.Replies {
		payload.Replies = append(payload.Replies, renderComment(reply))
	}
	return payload
}
