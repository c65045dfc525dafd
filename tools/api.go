package tools

import (
	"context"
	"encoding/json"
	"strings"
)

// The API metadata tools answer questions about integration runs. The records
// are a fixed demo dataset, filtered by case-insensitive substring match.

type APIInfoInput struct {
	APIName string `json:"APIname,omitempty" jsonschema_description:"Filter by API name (substring match)."`
	Source  string `json:"source,omitempty" jsonschema_description:"Filter by source system."`
	Target  string `json:"target,omitempty" jsonschema_description:"Filter by target system."`
}

type APIUserInput struct {
	APIName string `json:"APIname" jsonschema_description:"API name to look up."`
}

var APIInfoDefinition = Definition{
	Name:        "api_info_tool",
	Description: "Returns API metadata such as source/target system and log info.",
	InputSchema: GenerateSchema[APIInfoInput](),
	Function:    APIInfo,
}

var APIUserDefinition = Definition{
	Name:        "api_user_tool",
	Description: "Returns who executed the API and when.",
	InputSchema: GenerateSchema[APIUserInput](),
	Function:    APIUser,
}

type apiRecord struct {
	APIName      string `json:"APIname"`
	SourceSystem string `json:"source_system,omitempty"`
	TargetSystem string `json:"target_system,omitempty"`
	LogInfo      string `json:"log_info,omitempty"`
	ExecutedBy   string `json:"executed_by,omitempty"`
	Execution    string `json:"execution_time,omitempty"`
}

var apiInfoRecords = []apiRecord{
	{APIName: "CustomerSync", SourceSystem: "CRM", TargetSystem: "SAP", LogInfo: "Success at 10:05AM"},
	{APIName: "OrderPush", SourceSystem: "WebApp", TargetSystem: "ERP", LogInfo: "Timeout at 11:45AM"},
	{APIName: "UserCreate", SourceSystem: "MobileApp", TargetSystem: "AuthServer", LogInfo: "Created user ID 123"},
}

var apiUserRecords = []apiRecord{
	{APIName: "CustomerSync", ExecutedBy: "alice@company.com", Execution: "10:05 AM"},
	{APIName: "OrderPush", ExecutedBy: "bob@company.com", Execution: "11:45 AM"},
	{APIName: "UserCreate", ExecutedBy: "carol@company.com", Execution: "12:30 PM"},
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func APIInfo(_ context.Context, input json.RawMessage) (string, error) {
	var in APIInfoInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	var out []apiRecord
	for _, r := range apiInfoRecords {
		if containsFold(r.APIName, in.APIName) &&
			containsFold(r.SourceSystem, in.Source) &&
			containsFold(r.TargetSystem, in.Target) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "No matching API info found.", nil
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func APIUser(_ context.Context, input json.RawMessage) (string, error) {
	var in APIUserInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	var out []apiRecord
	for _, r := range apiUserRecords {
		if containsFold(r.APIName, in.APIName) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "No user info found.", nil
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
