package consts

const (
	TokenDenyKey = "auth:token:deny:"
)

const (
	DirectChatLock = "chat:direct:lock:"
)
