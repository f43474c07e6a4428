package server

// Status is the response of GET /status.
type Status struct {
	Status      string  `json:"status"`
	Version     string  `json:"version"`
	Display     string  `json:"display"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Rotation    float64 `json:"rotation"`
	Format      string  `json:"format"`
	Initialized bool    `json:"initialized"`
	Revision    int     `json:"revision"`
	Uptime      string  `json:"uptime"`
}

// Response is the response of the POST routes.
type Response struct {
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Revision int    `json:"revision,omitempty"`
}
