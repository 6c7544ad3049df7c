package email

const (
	subjectLeadNotificationFmt = "Nouveau lead : %s"
	subjectContactMessageFmt   = "Message de contact : %s"
)
