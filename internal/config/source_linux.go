package config

func defaultSource() string { return "v4l2" }
