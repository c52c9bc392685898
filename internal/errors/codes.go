package errors

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeConfigValidation Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError  Code = "CONFIG_READ_ERROR"
	CodeConfigParseError Code = "CONFIG_PARSE_ERROR"
	CodePlatformAPIError Code = "PLATFORM_API_ERROR"
	CodePlatformAuth     Code = "PLATFORM_AUTH_ERROR"
	CodeResourceNotFound Code = "RESOURCE_NOT_FOUND"
	CodeResourceConflict Code = "RESOURCE_CONFLICT"
	CodeWaitTimeout      Code = "WAIT_TIMEOUT_ERROR"
	CodeThrottled        Code = "THROTTLED_ERROR"
)

func (c Code) String() string {
	return string(c)
}
