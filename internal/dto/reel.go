package dto

type ReelStatsResponse struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Views    int64 `json:"views"`
	Saves    int64 `json:"saves"`
}

type PresignRequest struct {
	UploadType  string `json:"upload_type"` // video | thumbnail
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	FileSize    int64  `json:"file_size"`
}

type PresignResponse struct {
	UploadID  string `json:"upload_id"`
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
	PublicURL string `json:"public_url"`
	ExpiresIn int64  `json:"expires_in"`
}

type ConfirmUploadRequest struct {
	UploadID string `json:"upload_id"`
}

type ConfirmUploadResponse struct {
	ObjectKey  string `json:"object_key"`
	PublicURL  string `json:"public_url"`
	PreviewURL string `json:"preview_url"`
}

type ReelVideoInput struct {
	URL         string  `json:"url"`
	Thumbnail   *string `json:"thumbnail,omitempty"`
	DurationSec int     `json:"duration_sec"`
}

type ReelContentInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Difficulty  string   `json:"difficulty"`
	WhitePlayer string   `json:"white_player"`
	BlackPlayer string   `json:"black_player"`
}

type ReelChessInput struct {
	FEN         string `json:"fen"`
	PGN         string `json:"pgn"`
	Orientation string `json:"orientation"`
}

type UpsertReelRequest struct {
	Video       ReelVideoInput   `json:"video"`
	Content     ReelContentInput `json:"content"`
	ChessData   ReelChessInput   `json:"chess_data"`
	Status      string           `json:"status"`
	Folder      string           `json:"folder"`
	Grandmaster *string          `json:"grandmaster,omitempty"`
}

type LikeResponse struct {
	Likes int64 `json:"likes"`
	Liked bool  `json:"liked"`
}

type ViewResponse struct {
	Views int64 `json:"views"`
}

type SearchReelsQuery struct {
	Query      string `query:"query"`
	Tags       string `query:"tags"`
	Difficulty string `query:"difficulty"`
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
}

type FolderStatsResponse struct {
	Random      int64 `json:"random"`
	Grandmaster int64 `json:"grandmaster"`
}

type AdminStatsResponse struct {
	TotalReels     int64 `json:"total_reels"`
	PublishedReels int64 `json:"published_reels"`
	TotalUsers     int64 `json:"total_users"`
	TotalComments  int64 `json:"total_comments"`
}
