package tm

// Config holds configuration for the TM OData service.
type Config struct {
	// BaseURL is the OData service root, e.g. https://tm.example.com/sap/opu/odata/sap/ZFO_SRV.
	BaseURL string `mapstructure:"base_url" default:""`
	// SAPClient is sent as the sap-client query value on mutating calls when set.
	SAPClient string `mapstructure:"sap_client" default:""`
	// Username and Password build the Basic credential.
	Username string `mapstructure:"username" default:""`
	Password string `mapstructure:"password" default:""`
	// Basic is a pre-encoded Basic credential. It wins over Username/Password.
	Basic string `mapstructure:"basic" default:""`
	// TimeoutSeconds bounds every outbound request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// ForwardEvents forwards SKY submissions to TM after they are recorded.
	ForwardEvents bool `mapstructure:"forward_events" default:"true"`
}
