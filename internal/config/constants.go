package config

// Default network layout, matching the core cluster's defaults.
const (
	DefaultIPv4CIDR          = "10.0.0.0/16"
	DefaultNodeIPv4CIDR      = "10.0.64.0/19"
	DefaultSubnetMaskSize    = 25
	DefaultWorkerRangeCount  = 1
	DefaultAutoscalerReserve = 2
	DefaultZone              = "eu-central"
)
