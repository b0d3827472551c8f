package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"sic_sim/sic_controllers"
)

var sessionMap = sic_controllers.NewSessionMap()

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatal("Error loading .env file")
	}

	welcomeMessage := " -  -  DeepSIC Control Server  -  - "
	fmt.Println(welcomeMessage)

	dbController, err := sic_controllers.NewDatabaseController(
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"))
	if err != nil {
		fmt.Println(err)
		return
	}

	defer dbController.CloseDb()

	simController := sic_controllers.SimulationController{
		DatabaseController: *dbController,
	}

	http.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		listSessionMapHandler(w, r, sessionMap)
	})

	http.HandleFunc("/track-sessions", func(w http.ResponseWriter, r *http.Request) {
		trackAllSessionsHandler(w, r, sessionMap)
	})

	http.HandleFunc("/queryBERGraph", func(w http.ResponseWriter, r *http.Request) {
		getBERGraphHandler(w, r, dbController)
	})

	http.HandleFunc("/get-config", settingsByUidHandler)

	go simController.SimulateOnStart(sessionMap)

	http.ListenAndServe(":8080", nil)
}

func listSessionMapHandler(w http.ResponseWriter, r *http.Request, sessionMap *sic_controllers.SessionMap) {
	sessionMap.Mutex.RLock()
	jsonString, err := json.Marshal(sessionMap.Sessions)
	sessionMap.Mutex.RUnlock()
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Fprint(w, string(jsonString))
}

func trackAllSessionsHandler(w http.ResponseWriter, r *http.Request, sessionMap *sic_controllers.SessionMap) {
	// Set http headers required for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// You may need this locally for CORS requests
	w.Header().Set("Access-Control-Allow-Origin", "*")

	clientGone := r.Context().Done()

	rc := http.NewResponseController(w)
	t := time.NewTicker(time.Second * 5)
	defer t.Stop()
	for {
		select {
		case <-clientGone:
			return
		case <-t.C:
			sessionMap.Mutex.RLock()
			jsonString, err := json.Marshal(sessionMap.Sessions)
			sessionMap.Mutex.RUnlock()
			if err != nil {
				fmt.Println(err)
				return
			}

			_, err = fmt.Fprintf(w, "data: %s\n\n", string(jsonString))
			if err != nil {
				return
			}
			err = rc.Flush()
			if err != nil {
				return
			}
		}
	}
}

func settingsByUidHandler(w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("id")
	var session sic_controllers.OpenSession
	sessionMap.Mutex.RLock()

	sessionPointer, ok := sessionMap.Sessions[id]

	if !ok {
		sessionMap.Mutex.RUnlock()
		fmt.Println("Session UID not found: ", id)
		http.NotFound(w, r)
		return
	}

	session = *sessionPointer

	sessionMap.Mutex.RUnlock()
	parsedConfig, err := json.Marshal(session.Config)
	if err != nil {
		return
	}
	_, err = fmt.Fprint(w, string(parsedConfig))
	if err != nil {
		fmt.Println("Error while sending sessionConfig")
		return
	}
}

type GraphRequestBody struct {
	X         string `json:"X"`
	Y         string `json:"Y"`
	Mechanism string `json:"Mechanism"`
	TableName string `json:"TableName"`
}

func getBERGraphHandler(w http.ResponseWriter, r *http.Request, dbController *sic_controllers.DatabaseController) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var requestBody GraphRequestBody
	decoder := json.NewDecoder(r.Body)
	err := decoder.Decode(&requestBody)
	if err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	axisX := strings.ToUpper(requestBody.X)
	axisY := strings.ToUpper(requestBody.Y)
	mechanism := strings.ToUpper(requestBody.Mechanism)
	fmt.Printf("Received X: %s, Y: %s\n", axisX, axisY)

	validXAxis := dbController.ValidateGraphAxis(axisX)
	validYAxis := dbController.ValidateGraphAxis(axisY)
	if !(validXAxis && validYAxis) {
		fmt.Println("Invalid Axis Requested")
		http.Error(w, "Invalid axis", http.StatusBadRequest)
		return
	}

	if !dbController.ValidateMechanism(mechanism) {
		fmt.Println("Invalid Mechanism Requested")
		http.Error(w, "Invalid mechanism", http.StatusBadRequest)
		return
	}

	response, err := dbController.QueryBERSurface(axisX, axisY, requestBody.TableName, mechanism)

	if err != nil {
		fmt.Println("Error while querying graph")
		fmt.Println(err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
