package agent

import (
	"encoding/xml"
	"strings"
)

const (
	agentXMLVersion = "3.4"
	actionLogin     = "login"

	resultPass = "PASS"
	resultFail = "FAIL"
)

type sasRequest struct {
	XMLName  xml.Name `xml:"SASRequest"`
	Version  string   `xml:"Version"`
	Secret   string   `xml:"Secret"`
	Action   string   `xml:"Action"`
	Username string   `xml:"Username"`
	Password string   `xml:"Password"`
	OTC      string   `xml:"OTC"`
}

type sasResponse struct {
	XMLName xml.Name `xml:"SASResponse"`
	Version string   `xml:"Version"`
	Result  string   `xml:"Result"`
	Error   string   `xml:"Error"`
}

func encodeLogin(secret, username, password, otc string) ([]byte, error) {
	body, err := xml.Marshal(sasRequest{
		Version:  agentXMLVersion,
		Secret:   secret,
		Action:   actionLogin,
		Username: username,
		Password: password,
		OTC:      otc,
	})
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// decodeResult returns the normalized Result and Error of an agent reply.
func decodeResult(body []byte) (result, agentError string, err error) {
	var resp sasResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return "", "", err
	}
	return strings.ToUpper(strings.TrimSpace(resp.Result)), strings.TrimSpace(resp.Error), nil
}
