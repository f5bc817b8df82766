package models

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	DocType      string `json:"doc_type"`
}

type AnalyzeRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	Query     string `json:"query"`
	Model     string `json:"model" validate:"required"`
}

type AnalyzeResponse struct {
	ID    string `json:"id"`
	Stage string `json:"stage"`
}

type SessionResponse struct {
	ID string `json:"session_id"`
}

type ResultResponse struct {
	ID           string         `json:"id"`
	Stage        string         `json:"stage"`
	Routing      *RoutingResult `json:"routing,omitempty"`
	Result       *AnalysisData  `json:"result,omitempty"`
	ErroredStage *string        `json:"errored_stage,omitempty"`
	ErrorMessage *string        `json:"error_message,omitempty"`
}

type AnalysisData struct {
	Markdown         string  `json:"markdown"`
	SpeechText       string  `json:"speech_text"`
	AudioURL         *string `json:"audio_url,omitempty"`
	AudioProvider    *string `json:"audio_provider,omitempty"`
	AudioUnavailable bool    `json:"audio_unavailable"`
}
