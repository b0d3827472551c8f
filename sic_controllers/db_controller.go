package sic_controllers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

type DatabaseController struct {
	db *sql.DB
}

func NewDatabaseController(username, password, dbHost, dbPort, dbName string) (*DatabaseController, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", username, password, dbHost, dbPort, dbName)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	dbController := DatabaseController{db: db}

	return &dbController, nil
}

func (dc *DatabaseController) CloseDb() error {
	return dc.db.Close()
}

// insertIntoDB records one simulated block: the scenario scalars, the error
// rates, which users were retrained, and the drift statistics if any.
func (dc *DatabaseController) insertIntoDB(config Settings, report BlockReport, seed int64, startTime time.Time, endTime time.Time) {
	trainedJSON, err := json.Marshal(report.Trained)
	if err != nil {
		fmt.Println(fmt.Errorf("failed to marshal trained users: %v", err))
	}

	driftJSON, err := json.Marshal(report.DriftStats)
	if err != nil {
		fmt.Println(fmt.Errorf("failed to marshal drift stats: %v", err))
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = os.Getenv("HOSTNAME")
	}

	query := fmt.Sprintf("INSERT INTO %s (host, seed, program_version, n_user, n_ant, block_length, pilot_size, iterations, snr_db, mechanism, block_index, ber, pilot_ber, trained_users, drift_stats, start_time, end_time) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", os.Getenv("DB_NAME"))
	_, err = dc.db.Exec(query,
		hostname,
		seed,
		runtime.Version(),
		config.NUsers,
		config.NAnt,
		config.BlockLength,
		config.PilotSize,
		config.Iterations,
		config.SnrDB,
		config.Mechanism,
		report.Block,
		report.Ber,
		report.PilotBer,
		string(trainedJSON),
		string(driftJSON),
		startTime.Format("2006-01-02 15:04:05"),
		endTime.Format("2006-01-02 15:04:05"))
	if err != nil {
		fmt.Println(fmt.Errorf("failed to insert data into MySQL: %v", err))
	}
}

func (dc *DatabaseController) FetchFullTableAsJSON(tableName string) (string, error) {
	rows, err := dc.db.Query(fmt.Sprintf("SELECT * FROM %s", tableName))
	if err != nil {
		return "", fmt.Errorf("error retrieving data: %v", err)
	}
	defer rows.Close()

	var results []map[string]interface{}

	columns, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("error getting columns: %v", err)
	}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePointers := make([]interface{}, len(columns))
		for i := range values {
			valuePointers[i] = &values[i]
		}

		if err := rows.Scan(valuePointers...); err != nil {
			return "", fmt.Errorf("error scanning row: %v", err)
		}

		rowMap := make(map[string]interface{})
		for i, col := range columns {
			var v interface{}
			val := values[i]

			// Convert []byte to string for readability
			b, ok := val.([]byte)
			if ok {
				v = string(b)
			} else {
				v = val
			}

			rowMap[col] = v
		}

		results = append(results, rowMap)
	}

	jsonData, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error marshaling results to JSON: %v", err)
	}

	return string(jsonData), nil
}

// QueryBERSurface aggregates the bit error rate over two chosen axes for one
// retraining mechanism, feeding the surface plots on the dashboard.
func (dc *DatabaseController) QueryBERSurface(X string, Y string, tableName string, mechanism string) ([][]interface{}, error) {
	queryBody := fmt.Sprintf(`MIN(ber), MAX(ber), AVG(ber), AVG(pilot_ber)
			FROM %s
			WHERE mechanism = '%s'`, tableName, mechanism)
	query := fmt.Sprintf("SELECT %s, %s, %s GROUP BY %s, %s;", X, Y, queryBody, X, Y)
	rows, err := dc.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var graphData [][]interface{}

	graphData = append(graphData, []interface{}{"X", "Y", "ber_min", "ber_max", "ber_avg", "pilot_ber_avg"})

	for rows.Next() {
		var x, y string
		var berMin, berMax, berAvg, pilotBerAvg float64
		err := rows.Scan(&x, &y, &berMin, &berMax, &berAvg, &pilotBerAvg)
		if err != nil {
			return nil, err
		}

		graphData = append(graphData, []interface{}{x, y, berMin, berMax, berAvg, pilotBerAvg})
	}

	return graphData, nil
}

// QueryBlockCounts retrieves how many blocks were simulated and how many
// triggered a retrain, grouped by mechanism and scenario size.
func (dc *DatabaseController) QueryBlockCounts(tableName string) ([]BlockCountData, error) {
	fmt.Println("Querying block counts from DB...")
	query := fmt.Sprintf(`
        SELECT
            mechanism,
            CONCAT(n_user, '-', n_ant) AS user_ant_group,
            COUNT(CASE WHEN trained_users LIKE '%%true%%' THEN 1 END) AS retrained_count,
            COUNT(*) AS total_count
        FROM
            %s
        GROUP BY
            mechanism, user_ant_group;
    `, tableName)

	rows, err := dc.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []BlockCountData

	for rows.Next() {
		var data BlockCountData
		err := rows.Scan(&data.Mechanism, &data.UserAntGroup, &data.RetrainedCount, &data.TotalCount)
		if err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

type BlockCountData struct {
	Mechanism      string `json:"mechanism"`
	UserAntGroup   string `json:"user_ant_group"`
	RetrainedCount int    `json:"retrained_count"`
	TotalCount     int    `json:"total_count"`
}

func (dc *DatabaseController) ValidateGraphAxis(axis string) bool {
	availableAxis := []string{"N_USER", "N_ANT", "SNR_DB", "PILOT_SIZE", "BLOCK_LENGTH"}
	for _, item := range availableAxis {
		if item == axis {
			return true
		}
	}
	return false
}

func (dc *DatabaseController) ValidateMechanism(mechanism string) bool {
	availableMechanisms := []string{MechanismAlways, MechanismPeriod, MechanismDrift}
	for _, item := range availableMechanisms {
		if item == mechanism {
			return true
		}
	}
	return false
}
