package pipeline

import (
	"strings"

	"videotube/internal/models"
)

// Table names shared with the repository layer.
const (
	TableUsers         = "users"
	TableVideos        = "videos"
	TableComments      = "comments"
	TableTweets        = "tweets"
	TableLikes         = "likes"
	TableSubscriptions = "subscriptions"
)

// Output labels for paginated listings.
const (
	LabelVideos   = "videos"
	LabelComments = "comments"
	LabelTweets   = "tweets"
)

// OwnerFields are the only user columns ever joined onto an entity. The id
// is carried so a missing owner can be told apart from an empty one.
var OwnerFields = []string{"id", "username", "full_name", "avatar"}

func ownerLookup(localField string) Lookup {
	return Lookup{
		From:         TableUsers,
		As:           "owner",
		LocalField:   localField,
		ForeignField: "id",
		Fields:       OwnerFields,
	}
}

func ownerProjection() []Field {
	fields := make([]Field, 0, len(OwnerFields))
	for _, f := range OwnerFields {
		fields = append(fields, Field{Source: "owner." + f, As: "owner__" + f})
	}
	return fields
}

func likesCount(kind models.TargetKind, localField string) CountRelated {
	return CountRelated{
		From:         TableLikes,
		ForeignField: "target_id",
		LocalField:   localField,
		Where:        []Condition{Eq("target_kind", string(kind))},
		As:           "likes_count",
	}
}

func videoProjection(alias string) []Field {
	cols := []string{
		"id", "video_file", "thumbnail", "title", "description",
		"duration", "views", "is_published", "owner_id", "created_at", "updated_at",
	}
	fields := make([]Field, 0, len(cols)+len(OwnerFields)+1)
	for _, c := range cols {
		fields = append(fields, Field{Source: alias + "." + c, As: c})
	}
	fields = append(fields, ownerProjection()...)
	return append(fields, Field{Source: "likes_count", As: "likes_count"})
}

// VideoFilter narrows the global video listing.
type VideoFilter struct {
	Search        string
	OwnerID       uint
	PublishedOnly bool
}

// VideoFeed lists videos enriched with their owner and like count.
func VideoFeed(f VideoFilter) Pipeline {
	var conds []Condition
	if f.PublishedOnly {
		conds = append(conds, Eq("videos.is_published", true))
	}
	if f.OwnerID != 0 {
		conds = append(conds, Eq("videos.owner_id", f.OwnerID))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		conds = append(conds, Contains("videos.title", search))
	}

	return Pipeline{
		Collection: TableVideos,
		Stages: []Stage{
			Match{Conditions: conds},
			ownerLookup("videos.owner_id"),
			Flatten{Field: "owner"},
			likesCount(models.TargetVideo, "videos.id"),
			Project{Fields: videoProjection(TableVideos)},
		},
		Sortable: map[string]string{
			"createdAt": "videos.created_at",
			"updatedAt": "videos.updated_at",
			"title":     "videos.title",
			"views":     "videos.views",
			"duration":  "videos.duration",
		},
		Label: LabelVideos,
	}
}

// VideoDetail selects a single enriched video.
func VideoDetail(videoID uint) (Pipeline, error) {
	if videoID == 0 {
		return Pipeline{}, models.NewValidationError("Invalid video ID")
	}
	p := VideoFeed(VideoFilter{})
	p.Stages[0] = Match{Conditions: []Condition{Eq("videos.id", videoID)}}
	return p, nil
}

// VideoComments lists the comments of one video in insertion order.
func VideoComments(videoID uint) (Pipeline, error) {
	if videoID == 0 {
		return Pipeline{}, models.NewValidationError("Invalid video ID")
	}
	fields := []Field{
		{Source: "comments.id", As: "id"},
		{Source: "comments.content", As: "content"},
		{Source: "comments.video_id", As: "video_id"},
		{Source: "comments.created_at", As: "created_at"},
		{Source: "comments.updated_at", As: "updated_at"},
	}
	fields = append(fields, ownerProjection()...)
	fields = append(fields, Field{Source: "likes_count", As: "likes_count"})

	return Pipeline{
		Collection: TableComments,
		Stages: []Stage{
			Match{Conditions: []Condition{Eq("comments.video_id", videoID)}},
			ownerLookup("comments.owner_id"),
			Flatten{Field: "owner"},
			likesCount(models.TargetComment, "comments.id"),
			Project{Fields: fields},
		},
		Sortable: map[string]string{
			"createdAt": "comments.created_at",
		},
		Label: LabelComments,
	}, nil
}

// UserTweets lists the tweets of one user, optionally filtered by a
// case-insensitive search on their content.
func UserTweets(ownerID uint, search string) (Pipeline, error) {
	if ownerID == 0 {
		return Pipeline{}, models.NewValidationError("Invalid user ID")
	}
	conds := []Condition{Eq("tweets.owner_id", ownerID)}
	if search = strings.TrimSpace(search); search != "" {
		conds = append(conds, Contains("tweets.content", search))
	}

	fields := []Field{
		{Source: "tweets.id", As: "id"},
		{Source: "tweets.content", As: "content"},
		{Source: "tweets.created_at", As: "created_at"},
		{Source: "tweets.updated_at", As: "updated_at"},
	}
	fields = append(fields, ownerProjection()...)
	fields = append(fields, Field{Source: "likes_count", As: "likes_count"})

	return Pipeline{
		Collection: TableTweets,
		Stages: []Stage{
			Match{Conditions: conds},
			ownerLookup("tweets.owner_id"),
			Flatten{Field: "owner"},
			likesCount(models.TargetTweet, "tweets.id"),
			Project{Fields: fields},
		},
		Sortable: map[string]string{
			"createdAt": "tweets.created_at",
			"updatedAt": "tweets.updated_at",
		},
		Label: LabelTweets,
	}, nil
}

// LikedVideos lists the published videos an actor has liked, most recent
// like last.
func LikedVideos(actorID uint) (Pipeline, error) {
	if actorID == 0 {
		return Pipeline{}, models.NewValidationError("Invalid user ID")
	}
	return Pipeline{
		Collection: TableLikes,
		Stages: []Stage{
			Match{Conditions: []Condition{
				Eq("likes.actor_id", actorID),
				Eq("likes.target_kind", string(models.TargetVideo)),
			}},
			Lookup{
				From:         TableVideos,
				As:           "video",
				LocalField:   "likes.target_id",
				ForeignField: "id",
				Inner:        true,
			},
			Match{Conditions: []Condition{Eq("video.is_published", true)}},
			ownerLookup("video.owner_id"),
			Flatten{Field: "owner"},
			likesCount(models.TargetVideo, "video.id"),
			Project{Fields: videoProjection("video")},
			Sort{Keys: []SortKey{{Field: "likes.id"}}},
		},
		Label: LabelVideos,
	}, nil
}

// Related pairs a user profile with the users on the other side of that
// user's subscriptions.
type Related struct {
	Profile Pipeline
	Members Pipeline
}

func profile(userID uint, withSubscriberCount bool) Pipeline {
	stages := []Stage{
		Match{Conditions: []Condition{Eq("users.id", userID)}},
	}
	fields := []Field{
		{Source: "users.id", As: "id"},
		{Source: "users.username", As: "username"},
		{Source: "users.full_name", As: "full_name"},
		{Source: "users.avatar", As: "avatar"},
	}
	if withSubscriberCount {
		stages = append(stages, CountRelated{
			From:         TableSubscriptions,
			ForeignField: "channel_id",
			LocalField:   "users.id",
			As:           "subscribers_count",
		})
		fields = append(fields, Field{Source: "subscribers_count", As: "subscribers_count"})
	}
	stages = append(stages, Project{Fields: fields})
	return Pipeline{Collection: TableUsers, Stages: stages}
}

// members resolves the other side of every subscription whose matchField
// equals userID, remapped to {id, username, fullName, avatar}.
func members(matchField, otherField string, userID uint) Pipeline {
	return Pipeline{
		Collection: TableSubscriptions,
		Stages: []Stage{
			Match{Conditions: []Condition{Eq(matchField, userID)}},
			Lookup{
				From:         TableUsers,
				As:           "member",
				LocalField:   otherField,
				ForeignField: "id",
				Fields:       OwnerFields,
				Inner:        true,
			},
			Flatten{Field: "member"},
			Project{Fields: []Field{
				{Source: "member.id", As: "id"},
				{Source: "member.username", As: "username"},
				{Source: "member.full_name", As: "full_name"},
				{Source: "member.avatar", As: "avatar"},
			}},
			Sort{Keys: []SortKey{{Field: "subscriptions.id"}}},
		},
	}
}

// ChannelSubscribers chains users to subscriptions to users to list who
// subscribes to a channel.
func ChannelSubscribers(channelID uint) (Related, error) {
	if channelID == 0 {
		return Related{}, models.NewValidationError("Invalid channel ID")
	}
	return Related{
		Profile: profile(channelID, true),
		Members: members("subscriptions.channel_id", "subscriptions.subscriber_id", channelID),
	}, nil
}

// SubscribedChannels lists the channels a subscriber follows.
func SubscribedChannels(subscriberID uint) (Related, error) {
	if subscriberID == 0 {
		return Related{}, models.NewValidationError("Invalid subscriber ID")
	}
	return Related{
		Profile: profile(subscriberID, false),
		Members: members("subscriptions.subscriber_id", "subscriptions.channel_id", subscriberID),
	}, nil
}
