package api

// HealthData is the payload of GET /health.
type HealthData struct {
	Status   string   `json:"status"`
	Uptime   string   `json:"uptime"`
	Features Features `json:"features"`
}

// Features reports which upstream integrations are usable with the
// credentials known at startup.
type Features struct {
	GhostIntegration bool `json:"ghost_integration"`
	AIEnhancement    bool `json:"ai_enhancement"`
	ImageGeneration  bool `json:"image_generation"`
}

// ServiceInfo is the payload of GET /.
type ServiceInfo struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Features    []string          `json:"features"`
	Endpoints   map[string]string `json:"endpoints"`
}

// CreatedPost is returned by both creation endpoints.
type CreatedPost struct {
	PostID string `json:"post_id"`
	URL    string `json:"url"`
}

// SmartCreatedPost extends CreatedPost with the AI-generated structure so
// callers can see what the model derived from their input.
type SmartCreatedPost struct {
	PostID           string   `json:"post_id"`
	URL              string   `json:"url"`
	Response         string   `json:"response"`
	GeneratedTitle   string   `json:"generated_title"`
	GeneratedTags    []string `json:"generated_tags"`
	GeneratedExcerpt string   `json:"generated_excerpt"`
}

// PostDetails is a post as rendered in read responses.
type PostDetails struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content,omitempty"`
	Excerpt      string   `json:"excerpt"`
	Tags         []string `json:"tags"`
	Status       string   `json:"status"`
	Featured     bool     `json:"featured"`
	FeatureImage string   `json:"feature_image,omitempty"`
	Slug         string   `json:"slug,omitempty"`
	URL          string   `json:"url,omitempty"`
	CreatedAt    string   `json:"created_at,omitempty"`
	UpdatedAt    string   `json:"updated_at,omitempty"`
	PublishedAt  string   `json:"published_at,omitempty"`
}

// PostList is the payload of the listing and search endpoints.
type PostList struct {
	Posts []PostDetails `json:"posts"`
	Count int           `json:"count"`
}

// UpdatedPost reports which fields an update touched.
type UpdatedPost struct {
	PostID  string   `json:"post_id"`
	Updates []string `json:"updates"`
}

// BatchEntry is one result of a batch-details request. Entries preserve the
// order of the submitted post_ids; failed lookups carry Error instead of Post.
type BatchEntry struct {
	PostID  string       `json:"post_id"`
	Success bool         `json:"success"`
	Post    *PostDetails `json:"post,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// BatchDetails is the payload of POST /api/posts/batch-details.
type BatchDetails struct {
	Posts []BatchEntry `json:"posts"`
	Total int          `json:"total"`
}

// PostsSummary is the payload of GET /api/posts/summary.
type PostsSummary struct {
	Days          int            `json:"days"`
	TotalPosts    int            `json:"total_posts"`
	ByStatus      map[string]int `json:"by_status"`
	FeaturedCount int            `json:"featured_count"`
	RecentCount   int            `json:"recent_count"`
	RecentPosts   []string       `json:"recent_posts"`
}

// DeletedPost is the payload of DELETE /api/posts/:id.
type DeletedPost struct {
	PostID  string `json:"post_id"`
	Deleted bool   `json:"deleted"`
}
