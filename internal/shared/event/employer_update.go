package event

const EmployerUpdateDestination string = "employer_update"
const EmployerUpdateDestinationConsumerClient string = "employer_update_client"

type EmployerUpdateMessage struct {
	ClientID                     string `json:"client_id"`
	EmployerIdentificationNumber string `json:"employer_identification_number"`
}
