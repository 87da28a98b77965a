package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/config"

	"go.uber.org/zap"
)

const (
	overFetchFactor    = 3
	maxRepliesPerTopic = 3
	minReplyLength     = 5
	maxReplyLength     = 2000
	minReplyScore      = 1 // replies below this are noise
)

// ForumStore is the slice of the discussion/post store this service needs.
type ForumStore interface {
	SearchDiscussions(ctx context.Context, keywords []string, actor models.Actor, limit int) ([]models.Discussion, error)
	FirstPost(ctx context.Context, discussionID int64, actor models.Actor) (*models.Post, error)
	SearchReplies(ctx context.Context, discussionID int64, keywords []string, actor models.Actor, limit int) ([]models.Post, error)
	DiscussionVisible(ctx context.Context, discussionID int64, actor models.Actor) (bool, error)
}

// ForumSearchService retrieves forum content relevant to a chat query.
// Every failure path degrades to an empty result set; a broken search
// backend must never fail the chat request.
type ForumSearchService struct {
	store    ForumStore
	cfg      *config.SearchConfig
	forumURL string
	cache    *searchCache
	logger   *zap.Logger
}

func NewForumSearchService(store ForumStore, cfg *config.SearchConfig, forumURL string, logger *zap.Logger) *ForumSearchService {
	return &ForumSearchService{
		store:    store,
		cfg:      cfg,
		forumURL: strings.TrimRight(forumURL, "/"),
		cache:    newSearchCache(cfg.CacheTTL),
		logger:   logger,
	}
}

// Search returns the top relevant forum posts for the query, visible to the
// actor, ordered by relevance.
func (s *ForumSearchService) Search(ctx context.Context, query string, actor models.Actor) []models.SearchResult {
	key := cacheKey(query, actor)
	if cached, ok := s.cache.Get(key); ok {
		return s.revalidate(ctx, key, cached, actor)
	}

	keywords := ExtractKeywords(query)
	if len(keywords) == 0 {
		return nil
	}

	discussions, err := s.store.SearchDiscussions(ctx, keywords, actor, s.cfg.Limit*overFetchFactor)
	if err != nil {
		s.logger.Error("Forum discussion search failed", zap.Error(err))
		return nil
	}

	var results []models.SearchResult
	for _, discussion := range discussions {
		if first := s.firstPostResult(ctx, discussion, keywords, actor); first != nil {
			results = append(results, *first)
		}
		results = append(results, s.replyResults(ctx, discussion, keywords, actor)...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	if len(results) > s.cfg.Limit {
		results = results[:s.cfg.Limit]
	}

	s.cache.Put(key, results)
	return results
}

func (s *ForumSearchService) firstPostResult(ctx context.Context, discussion models.Discussion, keywords []string, actor models.Actor) *models.SearchResult {
	post, err := s.store.FirstPost(ctx, discussion.ID, actor)
	if err != nil {
		s.logger.Warn("Failed to load first post",
			zap.Int64("discussion_id", discussion.ID),
			zap.Error(err),
		)
		return nil
	}
	if post == nil {
		return nil
	}

	content := CleanContent(post.Content)
	return &models.SearchResult{
		Title:     discussion.Title,
		Content:   content,
		URL:       s.discussionURL(discussion.ID),
		Source:    models.SourceForum,
		Relevance: ScoreRelevance(discussion.Title+" "+content, keywords),
	}
}

func (s *ForumSearchService) replyResults(ctx context.Context, discussion models.Discussion, keywords []string, actor models.Actor) []models.SearchResult {
	replies, err := s.store.SearchReplies(ctx, discussion.ID, keywords, actor, maxRepliesPerTopic)
	if err != nil {
		s.logger.Warn("Failed to search replies",
			zap.Int64("discussion_id", discussion.ID),
			zap.Error(err),
		)
		return nil
	}

	var results []models.SearchResult
	for _, reply := range replies {
		content := CleanContent(reply.Content)
		if length := utf8.RuneCountInString(content); length < minReplyLength || length > maxReplyLength {
			continue
		}
		relevance := ScoreRelevance(content, keywords)
		if relevance <= minReplyScore {
			continue
		}
		results = append(results, models.SearchResult{
			Title:     fmt.Sprintf("%s (Reply #%d)", discussion.Title, reply.Number),
			Content:   content,
			URL:       s.postURL(discussion.ID, reply.Number),
			Source:    models.SourceForum,
			Relevance: relevance,
		})
	}
	return results
}

var discussionURLPattern = regexp.MustCompile(`/d/(\d+)(?:/\d+)?$`)

// revalidate prunes cached results whose discussion has since been deleted or
// hidden from the actor, writing back the pruned set if anything changed.
func (s *ForumSearchService) revalidate(ctx context.Context, key string, cached []models.SearchResult, actor models.Actor) []models.SearchResult {
	valid := make([]models.SearchResult, 0, len(cached))
	for _, result := range cached {
		matches := discussionURLPattern.FindStringSubmatch(result.URL)
		if matches == nil {
			// Unparseable URL, keep the result.
			valid = append(valid, result)
			continue
		}
		discussionID, _ := strconv.ParseInt(matches[1], 10, 64)
		visible, err := s.store.DiscussionVisible(ctx, discussionID, actor)
		if err != nil {
			s.logger.Warn("Cache revalidation check failed",
				zap.Int64("discussion_id", discussionID),
				zap.Error(err),
			)
			valid = append(valid, result)
			continue
		}
		if visible {
			valid = append(valid, result)
		}
	}

	if len(valid) != len(cached) {
		s.cache.Put(key, valid)
	}
	return valid
}

func (s *ForumSearchService) discussionURL(discussionID int64) string {
	return fmt.Sprintf("%s/d/%d", s.forumURL, discussionID)
}

func (s *ForumSearchService) postURL(discussionID int64, postNumber int) string {
	return fmt.Sprintf("%s/d/%d/%d", s.forumURL, discussionID, postNumber)
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// CleanContent strips markup and control noise from post bodies before
// scoring and prompt embedding.
func CleanContent(content string) string {
	content = htmlTagPattern.ReplaceAllString(content, " ")

	var sb strings.Builder
	for _, r := range content {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}
