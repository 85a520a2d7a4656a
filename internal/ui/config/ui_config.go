package ui_config

type Config struct {
	FrontPanel struct {
		// status: generic status text, screens: registry screens
		Mode     string `hcl:"mode"`
		RingSize int    `hcl:"ring_size"`
	} `hcl:"front_panel"`
}
