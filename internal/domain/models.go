package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enums
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type ReelStatus string

const (
	ReelDraft     ReelStatus = "draft"
	ReelPublished ReelStatus = "published"
	ReelArchived  ReelStatus = "archived"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func ValidDifficulty(d string) bool {
	switch Difficulty(d) {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

type ReelFolder string

const (
	FolderRandom      ReelFolder = "random"
	FolderGrandmaster ReelFolder = "grandmaster"
)

func ValidFolder(f string) bool {
	switch ReelFolder(f) {
	case FolderRandom, FolderGrandmaster:
		return true
	}
	return false
}

// JSONB for Postgres (stored as plain JSON text under SQLite in tests)
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	}
	return nil
}

// Base model
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// User
type User struct {
	BaseModel
	Username     string     `gorm:"type:varchar(30);not null;uniqueIndex" json:"username"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	AvatarURL    *string    `gorm:"type:text" json:"avatar_url,omitempty"`
	Role         UserRole   `gorm:"type:varchar(10);not null;default:'user'" json:"role"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

func (User) TableName() string { return "users" }

// RefreshToken
type RefreshToken struct {
	BaseModel
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash    string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"-"`
	FamilyID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"family_id"`
	DeviceInfo   JSONB      `gorm:"type:jsonb" json:"device_info,omitempty"`
	IPAddress    *string    `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	ExpiresAt    time.Time  `gorm:"not null" json:"expires_at"`
	LastUsedAt   *time.Time `json:"last_used_at,omitempty"`
	IsRevoked    bool       `gorm:"not null;default:false" json:"is_revoked"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
	RevokeReason *string    `gorm:"type:varchar(100)" json:"revoke_reason,omitempty"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// TokenBlacklist
type TokenBlacklist struct {
	JTI       string     `gorm:"type:varchar(36);primaryKey" json:"jti"`
	UserID    *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expires_at"`
	Reason    string     `gorm:"type:varchar(100)" json:"reason"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (TokenBlacklist) TableName() string { return "token_blacklist" }

// Reel video metadata
type Video struct {
	URL          string  `gorm:"type:text;not null" json:"url"`
	ThumbnailURL *string `gorm:"type:text" json:"thumbnail_url,omitempty"`
	DurationSec  int     `gorm:"not null;default:0" json:"duration_sec"`
}

// Reel instructional content
type Content struct {
	Title       string      `gorm:"type:varchar(200)" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Tags        StringArray `gorm:"type:text" json:"tags"`
	Difficulty  Difficulty  `gorm:"type:varchar(20);default:'beginner'" json:"difficulty"`
	WhitePlayer string      `gorm:"type:varchar(100)" json:"white_player,omitempty"`
	BlackPlayer string      `gorm:"type:varchar(100)" json:"black_player,omitempty"`
}

// Position and game data for the board overlay
type ChessData struct {
	FEN         string `gorm:"type:text" json:"fen,omitempty"`
	PGN         string `gorm:"type:text" json:"pgn,omitempty"`
	Orientation string `gorm:"type:varchar(5);default:'white'" json:"orientation"`
}

// Denormalized engagement counters. Updated only through atomic relative
// increments on the request path; the reconcile job rewrites them from
// authoritative rows.
type Engagement struct {
	Likes    int64 `gorm:"not null;default:0" json:"likes"`
	Comments int64 `gorm:"not null;default:0" json:"comments"`
	Views    int64 `gorm:"not null;default:0" json:"views"`
	Saves    int64 `gorm:"not null;default:0" json:"saves"`
}

// Reel
type Reel struct {
	BaseModel
	Video       Video      `gorm:"embedded;embeddedPrefix:video_" json:"video"`
	Content     Content    `gorm:"embedded;embeddedPrefix:content_" json:"content"`
	ChessData   ChessData  `gorm:"embedded;embeddedPrefix:chess_" json:"chess_data"`
	Engagement  Engagement `gorm:"embedded;embeddedPrefix:engagement_" json:"engagement"`
	Status      ReelStatus `gorm:"type:varchar(10);not null;default:'draft';index" json:"status"`
	Folder      ReelFolder `gorm:"type:varchar(15);not null;default:'random'" json:"folder"`
	Grandmaster *string    `gorm:"type:varchar(100)" json:"grandmaster,omitempty"`
	UploadedBy  *uuid.UUID `gorm:"type:uuid" json:"uploaded_by,omitempty"`
}

func (Reel) TableName() string { return "reels" }

// ReelLike (junction table; the engagement counter is kept alongside)
type ReelLike struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	ReelID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"reel_id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (ReelLike) TableName() string { return "reel_likes" }

// ReelSave
type ReelSave struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	ReelID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"reel_id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (ReelSave) TableName() string { return "reel_saves" }

// ReelView records one row per unique viewer (logged-in user or guest
// session). Repeat views refresh the timestamp without creating rows.
type ReelView struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ReelID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_reel_views_user;uniqueIndex:idx_reel_views_session" json:"reel_id"`
	UserID    *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_reel_views_user" json:"user_id,omitempty"`
	SessionID *string    `gorm:"type:varchar(100);uniqueIndex:idx_reel_views_session" json:"session_id,omitempty"`
	ViewedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"viewed_at"`
}

func (ReelView) TableName() string { return "reel_views" }

func (v *ReelView) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// Comment. UserID is nullable: guest comments carry only a display name.
// ReplyCount tracks direct children only; the reel's engagement_comments
// counter tracks the whole thread.
type Comment struct {
	BaseModel
	ReelID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"reel_id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	GuestName  string     `gorm:"type:varchar(50);not null;default:'Anonymous'" json:"guest_name"`
	ParentID   *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Text       string     `gorm:"type:varchar(1000);not null" json:"text"`
	LikeCount  int64      `gorm:"not null;default:0" json:"like_count"`
	ReplyCount int64      `gorm:"not null;default:0" json:"reply_count"`
	IsDeleted  bool       `gorm:"not null;default:false" json:"is_deleted"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Parent     *Comment   `gorm:"foreignKey:ParentID" json:"-"`
	Children   []Comment  `gorm:"foreignKey:ParentID" json:"-"`
}

func (Comment) TableName() string { return "comments" }

// DisplayName resolves the author name shown to clients.
func (c *Comment) DisplayName() string {
	if c.User != nil && c.User.Username != "" {
		return c.User.Username
	}
	if c.GuestName != "" {
		return c.GuestName
	}
	return "Anonymous"
}

// StringArray stores a string slice as a Postgres array literal.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	escaped := make([]string, len(a))
	for i, s := range a {
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `"`, `\"`)
		escaped[i] = `"` + s + `"`
	}
	return "{" + strings.Join(escaped, ",") + "}", nil
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}
	*a = parsePostgresArray(s)
	return nil
}

func parsePostgresArray(s string) []string {
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	if s == "" {
		return nil
	}
	var out []string
	var cur strings.Builder
	inQuotes := false
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	out = append(out, cur.String())
	return out
}
