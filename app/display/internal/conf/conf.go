package conf

type Bootstrap struct {
	Server *Server
	Data   *Data
	Radar  *Radar
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Data struct {
	Database *Database
	// CacheTTL 报告读缓存时长，如 10m
	CacheTTL string `json:"cache_ttl"`
}

type Database struct {
	Driver string
	Source string
}

type Radar struct {
	Llm         *LLM         `json:"llm"`
	Sources     *Sources     `json:"sources"`
	Pipeline    *Pipeline    `json:"pipeline"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
}

type LLM struct {
	Provider string `json:"provider"`
	BaseUrl  string `json:"base_url"`
	ApiKey   string `json:"api_key"`
	Model    string `json:"model"`
	Timeout  int32  `json:"timeout"`
}

type Sources struct {
	Youtube      *Youtube      `json:"youtube"`
	Discussion   *Discussion   `json:"discussion"`
	CustomSearch *CustomSearch `json:"custom_search"`
	Tavily       *Tavily       `json:"tavily"`
	Searxng      *SearXNG      `json:"searxng"`
	Reddit       *Reddit       `json:"reddit"`
}

type Youtube struct {
	ApiKey          string `json:"api_key"`
	Endpoint        string `json:"endpoint"`
	VideosPerQuery  int32  `json:"videos_per_query"`
	CommentsPerCall int32  `json:"comments_per_call"`
}

type Discussion struct {
	Provider   string   `json:"provider"`
	MaxResults int32    `json:"max_results"`
	Domains    []string `json:"domains"`
	Enrich     bool     `json:"enrich"`
}

type CustomSearch struct {
	ApiKey string `json:"api_key"`
	Cx     string `json:"cx"`
}

type Tavily struct {
	ApiKey  string `json:"api_key"`
	BaseUrl string `json:"base_url"`
}

type SearXNG struct {
	BaseUrl string `json:"base_url"`
	Timeout int32  `json:"timeout"`
}

type Reddit struct {
	Disabled  bool   `json:"disabled"`
	BaseUrl   string `json:"base_url"`
	UserAgent string `json:"user_agent"`
	Limit     int32  `json:"limit"`
}

type Pipeline struct {
	RequestedCount int32  `json:"requested_count"`
	MaxQueries     int32  `json:"max_queries"`
	CallDelayMs    int32  `json:"call_delay_ms"`
	RequestTimeout int32  `json:"request_timeout"`
	RunTimeout     int32  `json:"run_timeout"`
	KeywordFile    string `json:"keyword_file"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}
