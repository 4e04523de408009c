package email

// Stock template pieces the dashboard prefills into the dispatch form.
// Operators usually edit the date range and deadline before sending.

const DefaultHeader = `The café kindly requests your payment for Week X (MM/DD ~ MM/DD).
If last week's payment was not received in time, it has been incremented by 20% as a late penalty and added as the "Modifier." If this appears to be a mistake, please contact the café desk for further support.`

const DefaultFooter = `Please transfer the money to the café account by [DATE (DAY)]. When you are making the transfer, please set your name to "[YOUR NAME] (카페)", or otherwise your transfer may not be accepted.
If the payment is not submitted before the deadline, it will be incremented by 20% and added to the next payment as a late penalty.

Thank you for your cooperation,
The café team`

const DefaultFootnote = "(This is an automated message. Please do not reply to this email.)"
