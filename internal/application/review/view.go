package review

import (
	"context"
	"log/slog"

	"github.com/xiebiao/bookreview/internal/domain/event"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/user"
)

// ReviewView 评论及作者信息
// Book只在按用户查询评论时填充
type ReviewView struct {
	Review *review.Review
	Author user.Profile
	Book   *BookSummary
}

// BookSummary 被评论图书的简要信息
type BookSummary struct {
	ID     uint
	Title  string
	Author string
}

func authorOf(ctx context.Context, users user.Repository, userID uint) (user.Profile, error) {
	profiles, err := users.FindProfiles(ctx, []uint{userID})
	if err != nil {
		return user.Profile{}, err
	}
	if p, ok := profiles[userID]; ok {
		return p, nil
	}
	return user.Profile{ID: userID}, nil
}

// committedAuthor 事务提交后补充作者信息
// 查询失败只记录日志并退回只含ID的Profile，已提交的评论不能再以500返回
func committedAuthor(ctx context.Context, users user.Repository, userID uint) user.Profile {
	author, err := authorOf(ctx, users, userID)
	if err != nil {
		slog.WarnContext(ctx, "查询评论作者失败", "user_id", userID, "error", err)
		return user.Profile{ID: userID}
	}
	return author
}

// publishChanged 事务提交后发布评论变更事件，失败只记录日志
func publishChanged(ctx context.Context, events event.Publisher, eventType string, r *review.Review, stats review.Stats) {
	e := event.New(eventType, event.ReviewChanged{
		ReviewID:      r.ID,
		BookID:        r.BookID,
		UserID:        r.UserID,
		Rating:        r.Rating,
		AverageRating: stats.Average,
		ReviewsCount:  stats.Count,
	})
	if err := events.Publish(ctx, e); err != nil {
		slog.WarnContext(ctx, "领域事件发布失败", "type", e.Type, "error", err)
	}
}
