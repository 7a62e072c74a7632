package router

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/patric-chuzhbe/materials/internal/db/memorystorage"
	"github.com/patric-chuzhbe/materials/internal/models"
)

func setupExampleServer() *httptest.Server {
	db, err := memorystorage.New(
		models.Material{"id": "1", "title": "Algebra"},
		models.Material{"id": "2", "title": "Geometry"},
	)
	if err != nil {
		panic(err)
	}

	return httptest.NewServer(New(db))
}

func ExampleRouter_GetResourceget() {
	server := setupExampleServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/resource/get/1")
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		panic(err)
	}

	fmt.Println("Status Code:", resp.StatusCode)
	fmt.Print("Body: ", string(b))

	// Output:
	// Status Code: 200
	// Body: {"id":"1","title":"Algebra"}
}

func ExampleRouter_PutResourcepage() {
	server := setupExampleServer()
	defer server.Close()

	req, err := http.NewRequest(http.MethodPut, server.URL+"/resource/page/1/1", nil)
	if err != nil {
		panic(err)
	}

	client := &http.Client{}

	resp, err := client.Do(req)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		panic(err)
	}

	fmt.Println("Status Code:", resp.StatusCode)
	fmt.Print("Body: ", string(b))

	// Output:
	// Status Code: 200
	// Body: {"current":1,"pageSize":1,"total":2,"records":[{"id":"1","title":"Algebra"}]}
}
