// Minimal end-to-end check for the forms API. Expects a running formapi
// with at least one template and one submission in the database.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
)

var (
	baseURL  = getenv("API_URL", "http://localhost:8080/v1")
	apiToken = getenv("API_TOKEN", "")
	guildID  = getenv("GUILD_ID", "")
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	if apiToken == "" || guildID == "" {
		log.Fatal("API_TOKEN and GUILD_ID must be set")
	}

	token := authToken()

	templates := listTemplates(token)
	if len(templates) == 0 {
		log.Fatal("templates: none found for guild " + guildID)
	}
	tmpl := templates[0]
	fmt.Printf("template %d %q (%s)\n", tmpl.ID, tmpl.Name, tmpl.FormType)

	subs := listSubmissions(token, tmpl.ID)
	fmt.Printf("template %d has %d submissions\n", tmpl.ID, len(subs))
	if len(subs) > 0 {
		getSubmission(token, subs[0].ID)
	}

	suggestions := listSuggestions(token)
	fmt.Printf("guild has %d approved suggestions\n", len(suggestions))

	fmt.Println("✓ all endpoints passed")
}

// ----------------------------- auth

func authToken() string {
	var resp struct{ Token string }
	doJSON("POST", "/auth/token", map[string]any{
		"token":   apiToken,
		"service": "smoketest",
	}, &resp, http.StatusOK)
	if resp.Token == "" {
		log.Fatal("auth: empty token")
	}
	return resp.Token
}

// ----------------------------- templates

type templateInfo struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	FormType string `json:"formType"`
}

func listTemplates(tok string) []templateInfo {
	var resp struct {
		Templates []templateInfo `json:"templates"`
	}
	doAuth(tok, "GET", "/templates/"+guildID, nil, &resp, http.StatusOK)
	return resp.Templates
}

// ----------------------------- submissions

type submissionInfo struct {
	ID     uint64 `json:"id"`
	Status string `json:"status"`
}

func listSubmissions(tok string, templateID uint64) []submissionInfo {
	var resp struct {
		Submissions []submissionInfo `json:"submissions"`
	}
	doAuth(tok, "GET", fmt.Sprintf("/templates/%s/%d/submissions", guildID, templateID), nil, &resp, http.StatusOK)
	return resp.Submissions
}

func getSubmission(tok string, id uint64) {
	var sub struct {
		ID        uint64 `json:"id"`
		Status    string `json:"status"`
		Responses []struct {
			Label string `json:"label"`
			Value string `json:"value"`
		} `json:"responses"`
	}
	doAuth(tok, "GET", fmt.Sprintf("/submissions/%d", id), nil, &sub, http.StatusOK)
	if sub.ID != id {
		log.Fatalf("submission: want id %d got %d", id, sub.ID)
	}
	fmt.Printf("submission %d (%s): %d responses\n", sub.ID, sub.Status, len(sub.Responses))
}

func listSuggestions(tok string) []submissionInfo {
	var resp struct {
		Suggestions []submissionInfo `json:"suggestions"`
	}
	doAuth(tok, "GET", "/suggestions/"+guildID, nil, &resp, http.StatusOK)
	return resp.Suggestions
}

// ----------------------------- helpers

func doAuth(token, method, path string, body, out any, want int) {
	doReq(method, path, token, body, out, want)
}

func doJSON(method, path string, body, out any, want int) {
	doReq(method, path, "", body, out, want)
}

func doReq(method, path, token string, body, out any, want int) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("%s %s encode: %v", method, path, err)
		}
	}
	req, _ := http.NewRequest(method, baseURL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if res.StatusCode != want {
		log.Fatalf("%s %s: want %d got %d", method, path, want, res.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			log.Fatalf("%s %s decode: %v", method, path, err)
		}
	}
}
