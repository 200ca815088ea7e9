package dtos

// DeviceMetadata carries the device identity and descriptive fields sent
// alongside an upload. Only the category is mandatory; everything else can
// be inferred from the uploaded content.
type DeviceMetadata struct {
	DeviceName       string `form:"deviceName" json:"deviceName"`
	Manufacturer     string `form:"manufacturer" json:"manufacturer"`
	Category         string `form:"category" json:"category" validate:"required"`
	OperatingSystem  string `form:"operatingSystem" json:"operatingSystem"`
	OSVersion        string `form:"osVersion" json:"osVersion"`
	KernelVersion    string `form:"kernelVersion" json:"kernelVersion"`
	DigitalFootprint string `form:"digitalFootprint" json:"digitalFootprint"`
}

// UploadResultDTO reports what an ingestion run produced.
type UploadResultDTO struct {
	Message      string `json:"message"`
	DeviceID     string `json:"deviceId"`
	SbomID       string `json:"sbomId"`
	Version      string `json:"version"`
	PackageCount int    `json:"packageCount"`
}
